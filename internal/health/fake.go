package health

import (
	"context"
	"sync"
	"time"
)

// FakeProvider is a deterministic in-memory Provider used in tests. Each
// metric's data is configured up front; unconfigured metrics behave like
// a provider with no data. Per-metric errors simulate permission denials
// and provider outages.
type FakeProvider struct {
	mu sync.Mutex

	Samples  map[Metric][]Sample
	Latest   map[Metric]Quantity
	Sums     map[Metric]Quantity
	Sleep    []SleepSegment
	Errs     map[Metric]error
	SleepErr error

	notifyCh chan Notification
}

// NewFakeProvider creates an empty fake provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Samples:  make(map[Metric][]Sample),
		Latest:   make(map[Metric]Quantity),
		Sums:     make(map[Metric]Quantity),
		Errs:     make(map[Metric]error),
		notifyCh: make(chan Notification, 16),
	}
}

func (f *FakeProvider) QuerySamples(ctx context.Context, metric Metric, start, end time.Time) ([]Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Errs[metric]; err != nil {
		return nil, err
	}
	var out []Sample
	for _, s := range f.Samples[metric] {
		if !s.Timestamp.Before(start) && s.Timestamp.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *FakeProvider) QueryLatest(ctx context.Context, metric Metric) (Quantity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Errs[metric]; err != nil {
		return Quantity{}, err
	}
	return f.Latest[metric], nil
}

func (f *FakeProvider) QuerySum(ctx context.Context, metric Metric, start, end time.Time) (Quantity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Errs[metric]; err != nil {
		return Quantity{}, err
	}
	return f.Sums[metric], nil
}

func (f *FakeProvider) QuerySleep(ctx context.Context, start, end time.Time) ([]SleepSegment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SleepErr != nil {
		return nil, f.SleepErr
	}
	var out []SleepSegment
	for _, seg := range f.Sleep {
		if seg.End.After(start) && seg.Start.Before(end) {
			out = append(out, seg)
		}
	}
	return out, nil
}

func (f *FakeProvider) Observe(ctx context.Context, metric Metric) (<-chan Notification, error) {
	out := make(chan Notification)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-f.notifyCh:
				if !ok {
					return
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Notify emits a provider change notification to observers.
func (f *FakeProvider) Notify(metric Metric) {
	f.notifyCh <- Notification{Metric: metric, Timestamp: time.Now()}
}

// SetLatest configures the latest value for a metric.
func (f *FakeProvider) SetLatest(metric Metric, value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Latest[metric] = Quantity{Value: value, Valid: true}
}

// SetSum configures the windowed sum for a metric.
func (f *FakeProvider) SetSum(metric Metric, value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sums[metric] = Quantity{Value: value, Valid: true}
}

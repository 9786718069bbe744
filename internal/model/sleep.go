package model

import (
	"fmt"
	"time"
)

// SleepQuality is a qualitative tier derived from total sleep duration.
type SleepQuality string

const (
	SleepExcellent SleepQuality = "Excellent"
	SleepGood      SleepQuality = "Good"
	SleepFair      SleepQuality = "Fair"
	SleepPoor      SleepQuality = "Poor"
)

// Score returns the numeric quality score used by display surfaces.
func (q SleepQuality) Score() int {
	switch q {
	case SleepExcellent:
		return 90
	case SleepGood:
		return 70
	case SleepFair:
		return 50
	case SleepPoor:
		return 30
	default:
		return 0
	}
}

// QualityForSleepHours maps total asleep hours to a quality tier.
// The Fair range [5,8) overlaps Good [7,8); Good is checked first so the
// overlap resolves in its favor. This mirrors the established thresholds
// and is pinned by tests rather than corrected.
func QualityForSleepHours(hours float64) SleepQuality {
	switch {
	case hours >= 8:
		return SleepExcellent
	case hours >= 7:
		return SleepGood
	case hours >= 5:
		return SleepFair
	default:
		return SleepPoor
	}
}

// SleepStageKind tags one interval of a sleep session.
type SleepStageKind string

const (
	StageAwake SleepStageKind = "Awake"
	StageREM   SleepStageKind = "REM"
	StageCore  SleepStageKind = "Core"
	StageDeep  SleepStageKind = "Deep"
)

// SleepStage is one contiguous interval of a sleep session.
type SleepStage struct {
	Start time.Time
	End   time.Time
	Stage SleepStageKind
}

// SleepData summarizes one sleep session. It is derived per fetch and
// never persisted.
type SleepData struct {
	Date             time.Time
	TotalDuration    time.Duration
	REMDuration      time.Duration
	DeepDuration     time.Duration
	CoreDuration     time.Duration
	AwakeDuration    time.Duration
	AverageHeartRate float64 // bpm over the detected sleep window
	Quality          SleepQuality
	Stages           []SleepStage
}

// HasData reports whether the session contains any recorded sleep.
func (s *SleepData) HasData() bool {
	return s != nil && s.TotalDuration > 0
}

// DurationString formats the total duration as H:MM for display surfaces.
func (s *SleepData) DurationString() string {
	if s == nil {
		return "--:--"
	}
	total := int(s.TotalDuration / time.Second)
	return fmt.Sprintf("%d:%02d", total/3600, (total%3600)/60)
}

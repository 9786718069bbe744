package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderCarriesMetadata(t *testing.T) {
	t.Parallel()

	base := stderrors.New("disk full")
	err := New(base).
		Component("backup").
		Category(CategoryFileIO).
		Context("path", "/tmp/x.json").
		UserMessage("Could not write the backup file.").
		Build()

	assert.Equal(t, "disk full", err.Error())
	assert.Equal(t, "backup", err.Component)
	assert.Equal(t, CategoryFileIO, err.Category)
	assert.Equal(t, "Could not write the backup file.", err.DisplayMessage())
	assert.False(t, err.Timestamp.IsZero())

	ctx := err.GetContext()
	assert.Equal(t, "/tmp/x.json", ctx["path"])

	// The copy protects the error's own context.
	ctx["path"] = "mutated"
	assert.Equal(t, "/tmp/x.json", err.GetContext()["path"])
}

func TestUnwrapReachesBaseError(t *testing.T) {
	t.Parallel()

	base := stderrors.New("locked")
	err := New(fmt.Errorf("saving: %w", base)).Category(CategoryDatabase).Build()

	assert.True(t, Is(err, base))

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, CategoryDatabase, ee.Category)
}

func TestDefaultCategoryIsGeneric(t *testing.T) {
	t.Parallel()

	err := Newf("odd state %d", 7).Build()
	assert.Equal(t, CategoryGeneric, err.Category)
	assert.Equal(t, "odd state 7", err.DisplayMessage())
}

func TestHasCategory(t *testing.T) {
	t.Parallel()

	err := New(stderrors.New("x")).Category(CategoryValidation).Build()
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, HasCategory(wrapped, CategoryValidation))
	assert.False(t, HasCategory(wrapped, CategoryDatabase))
	assert.False(t, HasCategory(stderrors.New("plain"), CategoryValidation))
}

package swap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDeadline(t *testing.T) {
	got, err := ComputeDeadline(time.Unix(1000, 0), 300*time.Second)
	require.NoError(t, err)
	assert.Equal(t, Deadline(1300), got)
	assert.Equal(t, int64(1300), got.Big().Int64())
	assert.True(t, got.Time().After(time.Unix(1000, 0)))
}

func TestComputeDeadline_TruncatesSubSecond(t *testing.T) {
	got, err := ComputeDeadline(time.Unix(1000, 999_000_000), 1500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Deadline(1001), got)
}

func TestComputeDeadline_ClockErrors(t *testing.T) {
	_, err := ComputeDeadline(time.Time{}, DefaultDeadlineHorizon)
	assert.ErrorIs(t, err, ErrClock)

	_, err = ComputeDeadline(time.Unix(-10, 0), DefaultDeadlineHorizon)
	assert.ErrorIs(t, err, ErrClock)
}

func TestComputeDeadline_RejectsEmptyHorizon(t *testing.T) {
	_, err := ComputeDeadline(time.Unix(1000, 0), 500*time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

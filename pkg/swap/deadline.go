package swap

import (
	"fmt"
	"math/big"
	"time"
)

// DefaultDeadlineHorizon is how long the router will accept the swap after submission
const DefaultDeadlineHorizon = 300 * time.Second

// Deadline is an absolute Unix timestamp in seconds
type Deadline uint64

// Big returns the deadline as a uint256 ABI argument
func (d Deadline) Big() *big.Int {
	return new(big.Int).SetUint64(uint64(d))
}

// Time returns the deadline as a time.Time
func (d Deadline) Time() time.Time {
	return time.Unix(int64(d), 0)
}

// ComputeDeadline returns now + horizon, truncated to whole seconds
func ComputeDeadline(now time.Time, horizon time.Duration) (Deadline, error) {
	if now.IsZero() {
		return 0, fmt.Errorf("%w: current time unavailable", ErrClock)
	}
	if now.Unix() < 0 {
		return 0, fmt.Errorf("%w: current time %s precedes the Unix epoch", ErrClock, now.Format(time.RFC3339))
	}

	seconds := int64(horizon / time.Second)
	if seconds <= 0 {
		return 0, fmt.Errorf("%w: deadline horizon must be at least one second, got %s", ErrInvalidInput, horizon)
	}

	return Deadline(uint64(now.Unix()) + uint64(seconds)), nil
}

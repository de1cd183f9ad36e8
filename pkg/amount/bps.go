package amount

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxBasisPoints is 100%
const MaxBasisPoints BasisPoints = 10000

// ErrBasisPointsRange is returned for values above MaxBasisPoints
var ErrBasisPointsRange = errors.New("basis points out of range")

// BasisPoints is a ratio in hundredths of a percent, 10000 = 100%
type BasisPoints uint32

// Validate checks that the value lies in [0, 10000]
func (b BasisPoints) Validate() error {
	if b > MaxBasisPoints {
		return fmt.Errorf("%w: %d > %d", ErrBasisPointsRange, b, MaxBasisPoints)
	}
	return nil
}

// Amount returns the value as an Amount for checked arithmetic
func (b BasisPoints) Amount() Amount {
	return New(uint64(b))
}

// Percent renders the value as a percentage, e.g. 150 -> "1.5"
func (b BasisPoints) Percent() string {
	return decimal.New(int64(b), -2).String()
}

// ParsePercent converts a percentage such as "0.5" into basis points
func ParsePercent(s string) (BasisPoints, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q", s)
	}
	if d.Sign() < 0 {
		return 0, fmt.Errorf("percentage %q is negative", s)
	}

	bps := d.Shift(2)
	if !bps.IsInteger() {
		return 0, fmt.Errorf("percentage %q is finer than one basis point", s)
	}
	if bps.GreaterThan(decimal.NewFromInt(int64(MaxBasisPoints))) {
		return 0, fmt.Errorf("%w: %s%% exceeds 100%%", ErrBasisPointsRange, s)
	}

	return BasisPoints(bps.IntPart()), nil
}

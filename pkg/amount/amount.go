package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	// ErrOverflow is returned when a result does not fit in 256 bits
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrDivisionByZero is returned by CheckedDiv for a zero divisor
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvalidAmount is returned when a textual amount cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount")
)

// Amount is an unsigned 256-bit integer. Arithmetic never wraps: every
// operation that could leave the range reports ErrOverflow instead.
type Amount struct {
	v uint256.Int
}

// Zero returns the zero amount
func Zero() Amount {
	return Amount{}
}

// New creates an amount from a uint64
func New(u uint64) Amount {
	var a Amount
	a.v.SetUint64(u)
	return a
}

// Max returns 2^256 - 1
func Max() Amount {
	var a Amount
	a.v.SetAllOne()
	return a
}

// FromBig converts a big.Int, rejecting negative values and values wider than 256 bits
func FromBig(b *big.Int) (Amount, error) {
	if b == nil {
		return Amount{}, fmt.Errorf("%w: nil value", ErrInvalidAmount)
	}
	if b.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: negative value %s", ErrInvalidAmount, b.String())
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return Amount{}, fmt.Errorf("%w: %s exceeds 256 bits", ErrOverflow, b.String())
	}
	return Amount{v: *v}, nil
}

// FromDecimalString parses a base-10 integer string in smallest units
func FromDecimalString(s string) (Amount, error) {
	v, err := uint256.FromDecimal(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	return Amount{v: *v}, nil
}

// ParseUnits converts a human readable amount such as "0.01" into smallest units
// using the given number of decimals. Fractions finer than the token supports are rejected.
func ParseUnits(s string, decimals int32) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}

	scaled := d.Shift(decimals)
	if !scaled.IsInteger() {
		return Amount{}, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}

	return FromBig(scaled.BigInt())
}

// Format renders the amount in whole units with the given number of decimals
func (a Amount) Format(decimals int32) string {
	return decimal.NewFromBigInt(a.v.ToBig(), -decimals).String()
}

// CheckedMul returns a * b or ErrOverflow
func (a Amount) CheckedMul(b Amount) (Amount, error) {
	var out Amount
	if _, overflow := out.v.MulOverflow(&a.v, &b.v); overflow {
		return Amount{}, fmt.Errorf("%w: %s * %s", ErrOverflow, a.String(), b.String())
	}
	return out, nil
}

// CheckedDiv returns floor(a / b) or ErrDivisionByZero
func (a Amount) CheckedDiv(b Amount) (Amount, error) {
	if b.v.IsZero() {
		return Amount{}, ErrDivisionByZero
	}
	var out Amount
	out.v.Div(&a.v, &b.v)
	return out, nil
}

// CheckedAdd returns a + b or ErrOverflow
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	var out Amount
	if _, overflow := out.v.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, fmt.Errorf("%w: %s + %s", ErrOverflow, a.String(), b.String())
	}
	return out, nil
}

// CheckedSub returns a - b or ErrOverflow when b > a
func (a Amount) CheckedSub(b Amount) (Amount, error) {
	var out Amount
	if _, underflow := out.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}, fmt.Errorf("%w: %s - %s", ErrOverflow, a.String(), b.String())
	}
	return out, nil
}

// Cmp compares a and b and returns -1, 0 or +1
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// IsZero reports whether the amount is zero
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Big returns a fresh big.Int copy, suitable for ABI packing and transactions
func (a Amount) Big() *big.Int {
	return a.v.ToBig()
}

// String returns the base-10 representation in smallest units
func (a Amount) String() string {
	return a.v.Dec()
}

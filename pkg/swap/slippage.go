package swap

import (
	"fmt"

	"swap-bot/pkg/amount"
)

// ComputeMinOut returns floor(amountIn * (10000 - slippage) / 10000).
// The intermediate product is checked, so amounts near 2^256 fail with
// ErrArithmeticOverflow instead of wrapping.
func ComputeMinOut(amountIn amount.Amount, slippage amount.BasisPoints) (amount.Amount, error) {
	if err := slippage.Validate(); err != nil {
		return amount.Amount{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	keep := (amount.MaxBasisPoints - slippage).Amount()
	product, err := amountIn.CheckedMul(keep)
	if err != nil {
		return amount.Amount{}, fmt.Errorf("slippage calculation: %w", err)
	}

	minOut, err := product.CheckedDiv(amount.MaxBasisPoints.Amount())
	if err != nil {
		return amount.Amount{}, fmt.Errorf("slippage calculation: %w", err)
	}
	return minOut, nil
}

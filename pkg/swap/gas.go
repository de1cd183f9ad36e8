package swap

import (
	"fmt"

	"swap-bot/pkg/amount"
)

// DefaultGasMultiplierBps doubles the base gas price
const DefaultGasMultiplierBps uint64 = 20000

// ComputeAdjustedGasPrice returns base * multiplierBps / 10000
func ComputeAdjustedGasPrice(base amount.Amount, multiplierBps uint64) (amount.Amount, error) {
	product, err := base.CheckedMul(amount.New(multiplierBps))
	if err != nil {
		return amount.Amount{}, fmt.Errorf("gas price escalation: %w", err)
	}

	adjusted, err := product.CheckedDiv(amount.MaxBasisPoints.Amount())
	if err != nil {
		return amount.Amount{}, fmt.Errorf("gas price escalation: %w", err)
	}
	return adjusted, nil
}

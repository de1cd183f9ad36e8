package parser

import (
	"fmt"
	"regexp"
	"strings"

	"swap-bot/pkg/amount"
	"swap-bot/pkg/types"
)

var swapPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 0.01 ETH to LINK"
//   - "25 LINK to ETH"
func ParseSwapCommand(command string) (*types.SwapCommand, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))

	// Remove the word "SWAP" if present at the beginning
	command = strings.TrimPrefix(command, "SWAP ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 0.01 ETH to LINK')")
	}

	return &types.SwapCommand{
		Amount:      matches[1],
		SourceToken: matches[2],
		DestToken:   matches[3],
	}, nil
}

// ValidateSwapCommand validates that a swap command has all required fields
func ValidateSwapCommand(cmd *types.SwapCommand) error {
	if cmd.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if cmd.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if cmd.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	if NormalizeTokenSymbol(cmd.SourceToken) == NormalizeTokenSymbol(cmd.DestToken) {
		return fmt.Errorf("source and destination token are both %s", NormalizeTokenSymbol(cmd.SourceToken))
	}
	return nil
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// ParseAmount converts a human amount such as "0.01" into base units
func ParseAmount(s string, decimals int32) (amount.Amount, error) {
	a, err := amount.ParseUnits(strings.TrimSpace(s), decimals)
	if err != nil {
		return amount.Amount{}, err
	}
	if a.IsZero() {
		return amount.Amount{}, fmt.Errorf("amount must be greater than zero")
	}
	return a, nil
}

// ParseSlippage converts a slippage percentage such as "1" or "0.5%" into basis points
func ParseSlippage(s string) (amount.BasisPoints, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	bps, err := amount.ParsePercent(s)
	if err != nil {
		return 0, fmt.Errorf("invalid slippage: %w", err)
	}
	return bps, nil
}

// BuildSettings validates a parsed command and slippage into swap settings
func BuildSettings(cmd *types.SwapCommand, slippage string, decimals int32) (*types.SwapSettings, error) {
	if err := ValidateSwapCommand(cmd); err != nil {
		return nil, err
	}

	amountIn, err := ParseAmount(cmd.Amount, decimals)
	if err != nil {
		return nil, err
	}

	bps, err := ParseSlippage(slippage)
	if err != nil {
		return nil, err
	}

	return &types.SwapSettings{
		AmountIn:    amountIn,
		SourceToken: NormalizeTokenSymbol(cmd.SourceToken),
		DestToken:   NormalizeTokenSymbol(cmd.DestToken),
		Slippage:    bps,
	}, nil
}

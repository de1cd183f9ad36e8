package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"swap-bot/config"
	"swap-bot/pkg/swap"
	"swap-bot/pkg/types"
)

// resolveRequest maps symbols to addresses and picks the router call shape
func resolveRequest(cfg *config.Config, settings *types.SwapSettings) (swap.Request, error) {
	req := swap.Request{
		AmountIn: settings.AmountIn,
		Slippage: settings.Slippage,
	}

	srcNative := cfg.IsNative(settings.SourceToken)
	dstNative := cfg.IsNative(settings.DestToken)

	switch {
	case srcNative && dstNative:
		return swap.Request{}, fmt.Errorf("%w: cannot swap %s to itself", swap.ErrInvalidInput, cfg.NativeSymbol)

	case srcNative:
		req.Variant = swap.NativeToToken
		tokenOut, err := lookupToken(cfg, settings.DestToken)
		if err != nil {
			return swap.Request{}, err
		}
		req.TokenOut = tokenOut

	case dstNative:
		req.Variant = swap.TokenToNative
		tokenIn, err := lookupToken(cfg, settings.SourceToken)
		if err != nil {
			return swap.Request{}, err
		}
		req.TokenIn = tokenIn

	default:
		req.Variant = swap.TokenToToken
		tokenIn, err := lookupToken(cfg, settings.SourceToken)
		if err != nil {
			return swap.Request{}, err
		}
		tokenOut, err := lookupToken(cfg, settings.DestToken)
		if err != nil {
			return swap.Request{}, err
		}
		req.TokenIn, req.TokenOut = tokenIn, tokenOut
	}

	return req, nil
}

func lookupToken(cfg *config.Config, symbol string) (common.Address, error) {
	addr, ok := cfg.Token(symbol)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: unknown token %s (try: swap-bot tokens)", swap.ErrInvalidInput, symbol)
	}
	return addr, nil
}

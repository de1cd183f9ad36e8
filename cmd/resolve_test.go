package cmd

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swap-bot/config"
	"swap-bot/pkg/amount"
	"swap-bot/pkg/swap"
	"swap-bot/pkg/types"
)

var (
	link = common.HexToAddress("0x779877A7B0D9E8603169DdbD7836e478b4624789")
	usdc = common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238")
)

func testConfig() *config.Config {
	return &config.Config{
		NativeSymbol:  "ETH",
		TokenDecimals: 18,
		Tokens:        map[string]common.Address{"LINK": link, "USDC": usdc},
	}
}

func TestResolveRequest(t *testing.T) {
	tests := []struct {
		name         string
		src, dst     string
		wantVariant  swap.Variant
		wantTokenIn  common.Address
		wantTokenOut common.Address
	}{
		{name: "native source", src: "ETH", dst: "LINK", wantVariant: swap.NativeToToken, wantTokenOut: link},
		{name: "native destination", src: "LINK", dst: "eth", wantVariant: swap.TokenToNative, wantTokenIn: link},
		{name: "token pair", src: "LINK", dst: "USDC", wantVariant: swap.TokenToToken, wantTokenIn: link, wantTokenOut: usdc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := resolveRequest(testConfig(), &types.SwapSettings{
				AmountIn:    amount.New(100),
				SourceToken: tt.src,
				DestToken:   tt.dst,
				Slippage:    100,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantVariant, req.Variant)
			assert.Equal(t, tt.wantTokenIn, req.TokenIn)
			assert.Equal(t, tt.wantTokenOut, req.TokenOut)
			assert.Equal(t, amount.BasisPoints(100), req.Slippage)
			assert.Equal(t, "100", req.AmountIn.String())
		})
	}
}

func TestResolveRequest_Invalid(t *testing.T) {
	for _, pair := range [][2]string{{"ETH", "ETH"}, {"ETH", "DAI"}, {"DAI", "ETH"}, {"LINK", "DAI"}} {
		_, err := resolveRequest(testConfig(), &types.SwapSettings{
			AmountIn:    amount.New(1),
			SourceToken: pair[0],
			DestToken:   pair[1],
		})
		assert.ErrorIs(t, err, swap.ErrInvalidInput, pair)
	}
}

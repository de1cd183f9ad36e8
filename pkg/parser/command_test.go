package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swap-bot/pkg/amount"
	"swap-bot/pkg/types"
)

func TestParseSwapCommand(t *testing.T) {
	tests := []struct {
		input   string
		want    *types.SwapCommand
		wantErr bool
	}{
		{input: "swap 0.01 ETH to LINK", want: &types.SwapCommand{Amount: "0.01", SourceToken: "ETH", DestToken: "LINK"}},
		{input: "25 link to eth", want: &types.SwapCommand{Amount: "25", SourceToken: "LINK", DestToken: "ETH"}},
		{input: "  1.5   LINK   TO   USDC  ", want: &types.SwapCommand{Amount: "1.5", SourceToken: "LINK", DestToken: "USDC"}},
		{input: "swap ETH to LINK", wantErr: true},
		{input: "-1 ETH to LINK", wantErr: true},
		{input: "1 ETH LINK", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSwapCommand(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSlippage(t *testing.T) {
	tests := []struct {
		input   string
		want    amount.BasisPoints
		wantErr bool
	}{
		{input: "1", want: 100},
		{input: "0.5", want: 50},
		{input: "0.5%", want: 50},
		{input: "0", want: 0},
		{input: "100", want: 10000},
		{input: "100.01", wantErr: true},
		{input: "0.001", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSlippage(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSettings(t *testing.T) {
	settings, err := BuildSettings(&types.SwapCommand{Amount: "0.01", SourceToken: "eth", DestToken: "link"}, "1", 18)
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000", settings.AmountIn.String())
	assert.Equal(t, "ETH", settings.SourceToken)
	assert.Equal(t, "LINK", settings.DestToken)
	assert.Equal(t, amount.BasisPoints(100), settings.Slippage)

	_, err = BuildSettings(&types.SwapCommand{Amount: "0", SourceToken: "ETH", DestToken: "LINK"}, "1", 18)
	assert.ErrorContains(t, err, "greater than zero")

	_, err = BuildSettings(&types.SwapCommand{Amount: "1", SourceToken: "LINK", DestToken: "link"}, "1", 18)
	assert.Error(t, err)

	_, err = BuildSettings(&types.SwapCommand{Amount: "0.0000001", SourceToken: "ETH", DestToken: "LINK"}, "1", 6)
	assert.Error(t, err)
}

func TestPromptSwapSettings(t *testing.T) {
	in := strings.NewReader("2\n12.5\n0.5\n")
	var out bytes.Buffer

	decimals := func(symbol string) int32 {
		if symbol == "LINK" {
			return 6
		}
		return 18
	}

	settings, err := PromptSwapSettings(NewPrompter(in, &out), "ETH", []string{"LINK"}, decimals)
	require.NoError(t, err)
	assert.Equal(t, "LINK", settings.SourceToken)
	assert.Equal(t, "ETH", settings.DestToken)
	assert.Equal(t, "12500000", settings.AmountIn.String())
	assert.Equal(t, amount.BasisPoints(50), settings.Slippage)

	assert.Contains(t, out.String(), "1) ETH -> LINK")
	assert.Contains(t, out.String(), "2) LINK -> ETH")
}

func TestPromptSwapSettings_BadInput(t *testing.T) {
	tests := map[string]string{
		"choice out of range": "3\n",
		"choice not a number": "x\n",
		"input ends early":    "1\n",
		"empty amount":        "1\n\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			decimals := func(string) int32 { return 18 }
			_, err := PromptSwapSettings(NewPrompter(strings.NewReader(input), &bytes.Buffer{}), "ETH", []string{"LINK"}, decimals)
			assert.Error(t, err)
		})
	}
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false} {
		p := NewPrompter(strings.NewReader(input), &bytes.Buffer{})
		assert.Equal(t, want, p.Confirm("Proceed with swap?"), input)
	}
}

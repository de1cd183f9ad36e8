package pricefeed

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	result []byte
	err    error
	to     common.Address
	data   []byte
}

func (f *fakeCaller) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	f.to = to
	f.data = data
	return f.result, f.err
}

func encodeAnswer(t *testing.T, r *Reader, answer *big.Int) []byte {
	t.Helper()
	encoded, err := r.abi.Methods["latestAnswer"].Outputs.Pack(answer)
	require.NoError(t, err)
	return encoded
}

func TestLatest(t *testing.T) {
	caller := &fakeCaller{}
	reader, err := NewReader(caller)
	require.NoError(t, err)

	caller.result = encodeAnswer(t, reader, big.NewInt(345012345678))
	feedAddr := common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306")

	price, err := reader.Latest(context.Background(), EthUsd, feedAddr)
	require.NoError(t, err)
	assert.Equal(t, feedAddr, caller.to)
	assert.Equal(t, reader.abi.Methods["latestAnswer"].ID, caller.data)
	assert.Equal(t, "3450.12346", price.String())
}

func TestLatest_CallError(t *testing.T) {
	reader, err := NewReader(&fakeCaller{err: errors.New("boom")})
	require.NoError(t, err)

	_, err = reader.Latest(context.Background(), LinkEth, common.Address{})
	assert.ErrorContains(t, err, "LINK/ETH")
}

func TestLookup(t *testing.T) {
	for _, choice := range []string{"1", "link_eth", "LINK/ETH", "link-eth"} {
		feed, err := Lookup(choice)
		require.NoError(t, err, choice)
		assert.Equal(t, LinkEth, feed)
	}

	feed, err := Lookup("2")
	require.NoError(t, err)
	assert.Equal(t, EthUsd, feed)

	_, err = Lookup("3")
	assert.Error(t, err)
}

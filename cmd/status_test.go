package cmd

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
)

func TestIsTxHash(t *testing.T) {
	valid := "0x" + strings.Repeat("ab", 32)
	assert.True(t, isTxHash(valid))
	assert.True(t, isTxHash(strings.Repeat("AB", 32)))
	assert.False(t, isTxHash("0x1234"))
	assert.False(t, isTxHash("0x"+strings.Repeat("zz", 32)))
}

func TestToTxStatus(t *testing.T) {
	hash := common.HexToHash("0x01")

	assert.Equal(t, "PENDING", toTxStatus(hash, nil).Status)

	mined := toTxStatus(hash, &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(12), GasUsed: 21000})
	assert.Equal(t, "SUCCESS", mined.Status)
	assert.Equal(t, "12", mined.BlockNumber)
	assert.Equal(t, uint64(21000), mined.GasUsed)

	reverted := toTxStatus(hash, &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(13)})
	assert.Equal(t, "FAILED", reverted.Status)
}

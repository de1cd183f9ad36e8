package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DefaultReceiptInterval is the polling interval used by WaitReceipt
const DefaultReceiptInterval = 2 * time.Second

// Receipt returns the receipt of a mined transaction, or nil while it is pending.
// A mined transaction with failed status is returned together with ErrContractRevert.
func (c *Client) Receipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get receipt: %v", ErrCommunication, err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%w: transaction %s failed in block %s", ErrContractRevert, hash.Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}

// WaitReceipt polls until the transaction is mined or ctx is done
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash, interval time.Duration) (*types.Receipt, error) {
	if interval <= 0 {
		interval = DefaultReceiptInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := c.Receipt(ctx, hash)
		if err != nil || receipt != nil {
			return receipt, err
		}
		c.log.Debug().Stringer("tx", hash).Msg("waiting for receipt")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for %s: %v", ErrCommunication, hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

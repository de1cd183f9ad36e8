package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ERC20 approve/allowance/balanceOf ABI
const erc20ABI = `[
	{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"}
]`

var parsedERC20ABI = mustParseABI(erc20ABI)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid ABI: %v", err))
	}
	return parsed
}

// MaxApproval is 2^256 - 1
func MaxApproval() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
}

// Approve lets spender move amount of the signer's tokens
func (c *Client) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (common.Hash, error) {
	data, err := parsedERC20ABI.Pack("approve", spender, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack approve data: %w", err)
	}

	return c.Submit(ctx, TxRequest{
		To:   token,
		Data: data,
	})
}

// Allowance returns how much spender may move on behalf of owner
func (c *Client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	return c.callUint256(ctx, token, "allowance", owner, spender)
}

// TokenBalance returns the token balance of an address
func (c *Client) TokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return c.callUint256(ctx, token, "balanceOf", account)
}

func (c *Client) callUint256(ctx context.Context, token common.Address, method string, args ...interface{}) (*big.Int, error) {
	data, err := parsedERC20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s data: %w", method, err)
	}

	result, err := c.Call(ctx, token, data)
	if err != nil {
		return nil, err
	}

	out, err := parsedERC20ABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s result: %v", ErrCommunication, method, err)
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected %s result type %T", ErrCommunication, method, out[0])
	}
	return value, nil
}

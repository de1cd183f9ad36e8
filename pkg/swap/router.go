package swap

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"swap-bot/pkg/amount"
	"swap-bot/pkg/chain"
)

// Router method names
const (
	methodSwapExactETHForTokens    = "swapExactETHForTokens"
	methodSwapExactTokensForETH    = "swapExactTokensForETH"
	methodSwapExactTokensForTokens = "swapExactTokensForTokens"
)

// Uniswap V2 style router ABI, limited to the three swap shapes
const routerABI = `[
	{"inputs":[{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactETHForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactTokensForETH","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}
]`

// Router binds the swap methods of a router contract at a fixed address
type Router struct {
	address common.Address
	abi     abi.ABI
}

// NewRouter creates a router binding
func NewRouter(address common.Address) (*Router, error) {
	parsed, err := abi.JSON(strings.NewReader(routerABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}
	return &Router{address: address, abi: parsed}, nil
}

// Address returns the router contract address
func (r *Router) Address() common.Address {
	return r.address
}

// SwapNativeForToken sells amountIn of the native currency, attached as call value
func (r *Router) SwapNativeForToken(amountIn, minOut amount.Amount, path Path, recipient common.Address, deadline Deadline) (chain.TxRequest, error) {
	data, err := r.abi.Pack(methodSwapExactETHForTokens, minOut.Big(), path.Addresses(), recipient, deadline.Big())
	if err != nil {
		return chain.TxRequest{}, fmt.Errorf("failed to pack %s: %w", methodSwapExactETHForTokens, err)
	}
	return chain.TxRequest{
		To:    r.address,
		Data:  data,
		Value: amountIn.Big(),
	}, nil
}

// SwapTokenForNative sells amountIn of an ERC20 token for the native currency,
// submitted with an explicit gas price and nonce
func (r *Router) SwapTokenForNative(amountIn, minOut amount.Amount, path Path, recipient common.Address, deadline Deadline, gasPrice amount.Amount, nonce uint64) (chain.TxRequest, error) {
	data, err := r.abi.Pack(methodSwapExactTokensForETH, amountIn.Big(), minOut.Big(), path.Addresses(), recipient, deadline.Big())
	if err != nil {
		return chain.TxRequest{}, fmt.Errorf("failed to pack %s: %w", methodSwapExactTokensForETH, err)
	}
	return chain.TxRequest{
		To:       r.address,
		Data:     data,
		GasPrice: gasPrice.Big(),
		Nonce:    &nonce,
	}, nil
}

// SwapTokenForToken sells amountIn of one ERC20 token for another. amountIn is
// also attached as call value.
func (r *Router) SwapTokenForToken(amountIn, minOut amount.Amount, path Path, recipient common.Address, deadline Deadline) (chain.TxRequest, error) {
	data, err := r.abi.Pack(methodSwapExactTokensForTokens, amountIn.Big(), minOut.Big(), path.Addresses(), recipient, deadline.Big())
	if err != nil {
		return chain.TxRequest{}, fmt.Errorf("failed to pack %s: %w", methodSwapExactTokensForTokens, err)
	}
	return chain.TxRequest{
		To:    r.address,
		Data:  data,
		Value: amountIn.Big(),
	}, nil
}

// DecodedCall is a router call decoded from transaction data
type DecodedCall struct {
	Method    string
	AmountIn  *big.Int
	MinOut    *big.Int
	Path      []common.Address
	Recipient common.Address
	Deadline  *big.Int
}

// Decode parses calldata produced by one of the swap methods
func (r *Router) Decode(data []byte) (*DecodedCall, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("calldata too short: %d bytes", len(data))
	}
	method, err := r.abi.MethodById(data[:4])
	if err != nil {
		return nil, fmt.Errorf("unknown router method: %w", err)
	}

	args := make(map[string]interface{})
	if err := method.Inputs.UnpackIntoMap(args, data[4:]); err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method.Name, err)
	}

	call := &DecodedCall{Method: method.Name}
	if v, ok := args["amountIn"].(*big.Int); ok {
		call.AmountIn = v
	}
	call.MinOut, _ = args["amountOutMin"].(*big.Int)
	call.Path, _ = args["path"].([]common.Address)
	call.Recipient, _ = args["to"].(common.Address)
	call.Deadline, _ = args["deadline"].(*big.Int)

	return call, nil
}

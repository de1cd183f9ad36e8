package swap

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"swap-bot/pkg/amount"
	"swap-bot/pkg/chain"
)

// Error taxonomy. Every failure returned by this package matches exactly one of these via errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrArithmeticOverflow = amount.ErrOverflow
	ErrClock              = errors.New("clock error")
	ErrChainCommunication = chain.ErrCommunication
	ErrContractRevert     = chain.ErrContractRevert
	ErrSubmission         = chain.ErrSubmission
)

// Variant is the shape of a router swap call
type Variant int

const (
	NativeToToken Variant = iota + 1 // swapExactETHForTokens
	TokenToNative                    // swapExactTokensForETH
	TokenToToken                     // swapExactTokensForTokens
)

// Variants lists every supported variant
var Variants = []Variant{NativeToToken, TokenToNative, TokenToToken}

func (v Variant) String() string {
	switch v {
	case NativeToToken:
		return "native-to-token"
	case TokenToNative:
		return "token-to-native"
	case TokenToToken:
		return "token-to-token"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Validate reports whether v is one of the known variants
func (v Variant) Validate() error {
	switch v {
	case NativeToToken, TokenToNative, TokenToToken:
		return nil
	default:
		return fmt.Errorf("%w: unknown swap variant %s", ErrInvalidInput, v)
	}
}

// Path is the ordered route of assets through the router
type Path [2]common.Address

// Addresses returns the path as a slice for ABI encoding
func (p Path) Addresses() []common.Address {
	return []common.Address{p[0], p[1]}
}

// Start is the asset the router takes in
func (p Path) Start() common.Address {
	return p[0]
}

// End is the asset the router pays out
func (p Path) End() common.Address {
	return p[1]
}

// Request is one swap invocation. It is built once from validated settings
// and consumed by a single Execute call.
type Request struct {
	Variant  Variant
	TokenIn  common.Address
	TokenOut common.Address
	AmountIn amount.Amount
	Slippage amount.BasisPoints
}

// Validate checks the amount, slippage and variant
func (r Request) Validate() error {
	if err := r.Variant.Validate(); err != nil {
		return err
	}
	if r.AmountIn.IsZero() {
		return fmt.Errorf("%w: amount in must be greater than 0", ErrInvalidInput)
	}
	if err := r.Slippage.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

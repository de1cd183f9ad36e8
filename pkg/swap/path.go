package swap

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ResolvePath returns the router path for a variant. Routes involving the
// native currency go through the bridge asset; token-to-token swaps are direct.
func ResolvePath(variant Variant, tokenIn, tokenOut, bridge common.Address) (Path, error) {
	switch variant {
	case NativeToToken:
		return Path{bridge, tokenOut}, nil
	case TokenToNative:
		return Path{tokenIn, bridge}, nil
	case TokenToToken:
		return Path{tokenIn, tokenOut}, nil
	default:
		return Path{}, fmt.Errorf("%w: unknown swap variant %s", ErrInvalidInput, variant)
	}
}

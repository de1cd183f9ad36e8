package pricefeed

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Aggregator latestAnswer ABI
const aggregatorABI = `[{"inputs":[],"name":"latestAnswer","outputs":[{"internalType":"int256","name":"","type":"int256"}],"stateMutability":"view","type":"function"}]`

// Feed describes a price feed and how to scale its answer
type Feed struct {
	Name      string // e.g. "LINK/ETH"
	ConfigKey string // key under price_feeds in the configuration
	Decimals  int32
}

var (
	LinkEth = Feed{Name: "LINK/ETH", ConfigKey: "link_eth", Decimals: 18}
	EthUsd  = Feed{Name: "ETH/USD", ConfigKey: "eth_usd", Decimals: 8}
)

// Feeds lists the supported feeds in menu order
var Feeds = []Feed{LinkEth, EthUsd}

// Lookup finds a feed by menu index ("1"), config key ("link_eth") or name ("LINK/ETH", "link-eth")
func Lookup(choice string) (Feed, error) {
	choice = strings.TrimSpace(choice)
	normalized := strings.ToLower(strings.NewReplacer("/", "_", "-", "_").Replace(choice))

	for i, feed := range Feeds {
		if choice == fmt.Sprintf("%d", i+1) || normalized == feed.ConfigKey {
			return feed, nil
		}
	}
	return Feed{}, fmt.Errorf("unsupported price feed %q", choice)
}

// Caller performs read-only contract calls
type Caller interface {
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Price is a raw feed answer
type Price struct {
	Feed Feed
	Raw  *big.Int
}

// Decimal returns the answer scaled by the feed decimals
func (p Price) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(p.Raw, -p.Feed.Decimals)
}

// String formats the price with 5 decimals
func (p Price) String() string {
	return p.Decimal().StringFixed(5)
}

// Reader reads price feeds through a Caller
type Reader struct {
	caller Caller
	abi    abi.ABI
}

// NewReader creates a new price feed reader
func NewReader(caller Caller) (*Reader, error) {
	parsed, err := abi.JSON(strings.NewReader(aggregatorABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse aggregator ABI: %w", err)
	}
	return &Reader{caller: caller, abi: parsed}, nil
}

// Latest returns the latest answer of the feed deployed at address
func (r *Reader) Latest(ctx context.Context, feed Feed, address common.Address) (*Price, error) {
	data, err := r.abi.Pack("latestAnswer")
	if err != nil {
		return nil, fmt.Errorf("failed to pack latestAnswer: %w", err)
	}

	result, err := r.caller.Call(ctx, address, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s feed: %w", feed.Name, err)
	}

	out, err := r.abi.Unpack("latestAnswer", result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s answer: %w", feed.Name, err)
	}
	answer, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s answer type %T", feed.Name, out[0])
	}

	return &Price{Feed: feed, Raw: answer}, nil
}

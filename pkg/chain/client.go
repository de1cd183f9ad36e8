package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
)

const (
	// DefaultGasLimit is used when gas estimation fails for a reason other than a revert
	DefaultGasLimit = uint64(300000)

	// gasBufferPercent is added on top of the estimate
	gasBufferPercent = 20

	// revertErrorCode is the JSON-RPC code nodes use for execution reverted
	revertErrorCode = 3
)

var (
	// ErrCommunication covers failed reads against the node
	ErrCommunication = errors.New("chain communication error")
	// ErrContractRevert means the call was rejected by contract execution
	ErrContractRevert = errors.New("contract reverted")
	// ErrSubmission covers signing and broadcast failures
	ErrSubmission = errors.New("transaction submission failed")
)

// Backend is the subset of ethclient.Client the client depends on
type Backend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// TxRequest describes a contract call to sign and broadcast.
// Nil Value, GasPrice and Nonce are filled in by the client.
type TxRequest struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasPrice *big.Int
	Nonce    *uint64
}

// Client signs and submits transactions for a single key on a single chain.
// One Client is created at startup and shared by every component needing chain access.
type Client struct {
	backend    Backend
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
	gasLimit   uint64
	closer     func()
	log        zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the client logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithFallbackGasLimit overrides DefaultGasLimit
func WithFallbackGasLimit(limit uint64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.gasLimit = limit
		}
	}
}

// Dial connects to the RPC endpoint and loads the signing key
func Dial(ctx context.Context, rpcURL, privateKeyHex string, chainID int64, opts ...Option) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL not configured")
	}

	privateKey, err := ParsePrivateKey(privateKeyHex)
	if err != nil {
		return nil, err
	}

	rpcClient, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to RPC endpoint: %v", ErrCommunication, err)
	}

	c := NewClient(rpcClient, privateKey, big.NewInt(chainID), opts...)
	c.closer = rpcClient.Close
	return c, nil
}

// NewClient creates a client over an existing backend
func NewClient(backend Backend, privateKey *ecdsa.PrivateKey, chainID *big.Int, opts ...Option) *Client {
	c := &Client{
		backend:    backend,
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:    new(big.Int).Set(chainID),
		gasLimit:   DefaultGasLimit,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsePrivateKey parses a hex encoded secp256k1 key, with or without 0x prefix
func ParsePrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	if privateKeyHex == "" {
		return nil, fmt.Errorf("private key not configured")
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return privateKey, nil
}

// Address returns the signer address
func (c *Client) Address() common.Address {
	return c.address
}

// ChainID returns the chain id used for signing
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Balance returns the native balance of an address at the latest block
func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get balance: %v", ErrCommunication, err)
	}
	return balance, nil
}

// GasPrice returns the node's suggested gas price
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get gas price: %v", ErrCommunication, err)
	}
	return gasPrice, nil
}

// Nonce returns the pending nonce of an address
func (c *Client) Nonce(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.backend.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get nonce: %v", ErrCommunication, err)
	}
	return nonce, nil
}

// Call performs a read-only contract call at the latest block
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{
		From: c.address,
		To:   &to,
		Data: data,
	}
	result, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("%w: %v", ErrContractRevert, err)
		}
		return nil, fmt.Errorf("%w: call to %s failed: %v", ErrCommunication, to.Hex(), err)
	}
	return result, nil
}

// Submit signs the request and broadcasts it. It returns once the node has
// accepted the transaction; it does not wait for inclusion.
func (c *Client) Submit(ctx context.Context, req TxRequest) (common.Hash, error) {
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	var nonce uint64
	if req.Nonce != nil {
		nonce = *req.Nonce
	} else {
		n, err := c.Nonce(ctx, c.address)
		if err != nil {
			return common.Hash{}, err
		}
		nonce = n
	}

	gasPrice := req.GasPrice
	if gasPrice == nil {
		p, err := c.GasPrice(ctx)
		if err != nil {
			return common.Hash{}, err
		}
		gasPrice = p
	}

	to := req.To
	gasLimit, err := c.estimateGas(ctx, ethereum.CallMsg{
		From:     c.address,
		To:       &to,
		GasPrice: gasPrice,
		Value:    value,
		Data:     req.Data,
	})
	if err != nil {
		return common.Hash{}, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     req.Data,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(c.chainID), c.privateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: failed to sign transaction: %v", ErrSubmission, err)
	}

	if err := c.backend.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("%w: failed to send transaction: %v", ErrSubmission, err)
	}

	c.log.Debug().
		Stringer("tx", signedTx.Hash()).
		Uint64("nonce", nonce).
		Stringer("gas_price", gasPrice).
		Uint64("gas", gasLimit).
		Msg("transaction broadcast")

	return signedTx.Hash(), nil
}

// estimateGas returns the estimate plus a buffer. A revert is final; any other
// estimation failure falls back to the configured limit.
func (c *Client) estimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	estimated, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		if isRevert(err) {
			return 0, fmt.Errorf("%w: %v", ErrContractRevert, err)
		}
		c.log.Warn().Err(err).Uint64("gas", c.gasLimit).Msg("gas estimation failed, using fallback limit")
		return c.gasLimit, nil
	}
	return estimated * (100 + gasBufferPercent) / 100, nil
}

// Close closes the underlying RPC connection
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func isRevert(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}

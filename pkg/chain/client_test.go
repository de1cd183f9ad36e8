package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revertError struct{}

func (revertError) Error() string  { return "execution reverted: UniswapV2Router: EXPIRED" }
func (revertError) ErrorCode() int { return 3 }

type fakeBackend struct {
	balance     *big.Int
	gasPrice    *big.Int
	nonce       uint64
	estimate    uint64
	estimateErr error
	sendErr     error
	callResult  []byte
	callErr     error
	receipts    []*types.Receipt

	nonceCalls    int
	gasPriceCalls int
	sent          []*types.Transaction
	estimated     []ethereum.CallMsg
	called        []ethereum.CallMsg
}

func (f *fakeBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	f.gasPriceCalls++
	return f.gasPrice, nil
}

func (f *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	f.nonceCalls++
	return f.nonce, nil
}

func (f *fakeBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.estimated = append(f.estimated, msg)
	return f.estimate, f.estimateErr
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.called = append(f.called, msg)
	return f.callResult, f.callErr
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if len(f.receipts) == 0 {
		return nil, ethereum.NotFound
	}
	r := f.receipts[0]
	f.receipts = f.receipts[1:]
	if r == nil {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return NewClient(backend, key, big.NewInt(11155111))
}

func TestSubmit_FillsNonceAndGasPrice(t *testing.T) {
	backend := &fakeBackend{gasPrice: big.NewInt(7), nonce: 4, estimate: 100000}
	c := newTestClient(t, backend)
	router := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	hash, err := c.Submit(context.Background(), TxRequest{
		To:    router,
		Data:  []byte{0x01, 0x02},
		Value: big.NewInt(1000),
	})
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)

	tx := backend.sent[0]
	assert.Equal(t, hash, tx.Hash())
	assert.Equal(t, uint64(4), tx.Nonce())
	assert.Equal(t, int64(7), tx.GasPrice().Int64())
	assert.Equal(t, uint64(120000), tx.Gas())
	assert.Equal(t, int64(1000), tx.Value().Int64())
	assert.Equal(t, router, *tx.To())
	assert.Equal(t, []byte{0x01, 0x02}, tx.Data())

	sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(11155111)), tx)
	require.NoError(t, err)
	assert.Equal(t, c.Address(), sender)
}

func TestSubmit_RespectsOverrides(t *testing.T) {
	backend := &fakeBackend{gasPrice: big.NewInt(7), nonce: 4, estimate: 50000}
	c := newTestClient(t, backend)

	nonce := uint64(9)
	_, err := c.Submit(context.Background(), TxRequest{
		To:       common.HexToAddress("0x01"),
		GasPrice: big.NewInt(100),
		Nonce:    &nonce,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, backend.nonceCalls)
	assert.Equal(t, 0, backend.gasPriceCalls)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, uint64(9), backend.sent[0].Nonce())
	assert.Equal(t, int64(100), backend.sent[0].GasPrice().Int64())
	assert.Equal(t, int64(0), backend.sent[0].Value().Int64())
	require.Len(t, backend.estimated, 1)
	assert.Equal(t, int64(100), backend.estimated[0].GasPrice.Int64())
}

func TestSubmit_RevertDuringEstimation(t *testing.T) {
	backend := &fakeBackend{gasPrice: big.NewInt(1), estimateErr: revertError{}}
	c := newTestClient(t, backend)

	_, err := c.Submit(context.Background(), TxRequest{To: common.HexToAddress("0x01")})
	assert.ErrorIs(t, err, ErrContractRevert)
	assert.Empty(t, backend.sent)
}

func TestSubmit_EstimationFailureFallsBack(t *testing.T) {
	backend := &fakeBackend{gasPrice: big.NewInt(1), estimateErr: errors.New("connection reset")}
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	c := NewClient(backend, key, big.NewInt(1), WithFallbackGasLimit(250000))

	_, err = c.Submit(context.Background(), TxRequest{To: common.HexToAddress("0x01")})
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, uint64(250000), backend.sent[0].Gas())
}

func TestSubmit_BroadcastFailure(t *testing.T) {
	backend := &fakeBackend{gasPrice: big.NewInt(1), estimate: 21000, sendErr: errors.New("nonce too low")}
	c := newTestClient(t, backend)

	_, err := c.Submit(context.Background(), TxRequest{To: common.HexToAddress("0x01")})
	assert.ErrorIs(t, err, ErrSubmission)
}

func TestCall_ClassifiesErrors(t *testing.T) {
	backend := &fakeBackend{callErr: errors.New("dial tcp: timeout")}
	c := newTestClient(t, backend)

	_, err := c.Call(context.Background(), common.HexToAddress("0x01"), nil)
	assert.ErrorIs(t, err, ErrCommunication)

	backend.callErr = revertError{}
	_, err = c.Call(context.Background(), common.HexToAddress("0x01"), nil)
	assert.ErrorIs(t, err, ErrContractRevert)
}

func TestAllowance(t *testing.T) {
	encoded, err := parsedERC20ABI.Methods["allowance"].Outputs.Pack(big.NewInt(12345))
	require.NoError(t, err)

	backend := &fakeBackend{callResult: encoded}
	c := newTestClient(t, backend)
	token := common.HexToAddress("0x779877A7B0D9E8603169DdbD7836e478b4624789")
	spender := common.HexToAddress("0xeE567Fe1712Faf6149d80dA1E6934E354124CfE3")

	got, err := c.Allowance(context.Background(), token, c.Address(), spender)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), got.Int64())

	require.Len(t, backend.called, 1)
	assert.Equal(t, token, *backend.called[0].To)
	method, err := parsedERC20ABI.MethodById(backend.called[0].Data[:4])
	require.NoError(t, err)
	assert.Equal(t, "allowance", method.Name)
}

func TestApprove_PacksMaxApproval(t *testing.T) {
	backend := &fakeBackend{gasPrice: big.NewInt(1), estimate: 50000}
	c := newTestClient(t, backend)
	token := common.HexToAddress("0x779877A7B0D9E8603169DdbD7836e478b4624789")
	spender := common.HexToAddress("0xeE567Fe1712Faf6149d80dA1E6934E354124CfE3")

	_, err := c.Approve(context.Background(), token, spender, MaxApproval())
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)

	tx := backend.sent[0]
	assert.Equal(t, token, *tx.To())
	args, err := parsedERC20ABI.Methods["approve"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, spender, args[0].(common.Address))
	assert.Equal(t, 0, MaxApproval().Cmp(args[1].(*big.Int)))
}

func TestWaitReceipt(t *testing.T) {
	backend := &fakeBackend{receipts: []*types.Receipt{nil, {Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(5)}}}
	c := newTestClient(t, backend)

	receipt, err := c.WaitReceipt(context.Background(), common.Hash{0x1}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(5), receipt.BlockNumber.Int64())

	backend.receipts = []*types.Receipt{{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(6)}}
	_, err = c.WaitReceipt(context.Background(), common.Hash{0x2}, time.Millisecond)
	assert.ErrorIs(t, err, ErrContractRevert)
}

func TestReceipt(t *testing.T) {
	backend := &fakeBackend{receipts: []*types.Receipt{nil, {Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(9)}}}
	c := newTestClient(t, backend)

	receipt, err := c.Receipt(context.Background(), common.Hash{0x4})
	require.NoError(t, err)
	assert.Nil(t, receipt)

	receipt, err = c.Receipt(context.Background(), common.Hash{0x4})
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, int64(9), receipt.BlockNumber.Int64())
}

func TestWaitReceipt_ContextCancelled(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.WaitReceipt(ctx, common.Hash{0x3}, time.Millisecond)
	assert.ErrorIs(t, err, ErrCommunication)
}

func TestParsePrivateKey(t *testing.T) {
	_, err := ParsePrivateKey("")
	assert.Error(t, err)

	_, err = ParsePrivateKey("0xzz")
	assert.Error(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := "0x" + common.Bytes2Hex(crypto.FromECDSA(key))
	parsed, err := ParsePrivateKey(hexKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(parsed.PublicKey))
}

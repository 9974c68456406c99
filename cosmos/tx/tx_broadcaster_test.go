package tx

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"

	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

// fakeTxBroadcaster replays canned results. statuses are returned one per checkTxStatus call.
type fakeTxBroadcaster struct {
	broadcastResult *txtypes.BroadcastTxResponse
	broadcastErrs   []error
	statuses        []*coretypes.ResultTx
	statusErr       error

	broadcastCalls int
	statusCalls    int
}

func (f *fakeTxBroadcaster) signAndBroadcast(ctx context.Context, msgs []sdk.Msg, fee *Fee, memo string) (*txtypes.BroadcastTxResponse, error) {
	f.broadcastCalls++
	if len(f.broadcastErrs) >= f.broadcastCalls && f.broadcastErrs[f.broadcastCalls-1] != nil {
		return nil, f.broadcastErrs[f.broadcastCalls-1]
	}
	return f.broadcastResult, nil
}

func (f *fakeTxBroadcaster) checkTxStatus(ctx context.Context, txHash string) (*coretypes.ResultTx, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.statusCalls > len(f.statuses) {
		return nil, nil
	}
	return f.statuses[f.statusCalls-1], nil
}

func quietLogger() *log.Logger {
	return log.NewLoggerWithWriter("error", io.Discard)
}

func acceptedBroadcast() *txtypes.BroadcastTxResponse {
	return &txtypes.BroadcastTxResponse{
		TxResponse: &sdk.TxResponse{TxHash: "ABCDEF", Code: 0},
	}
}

func includedTx(code uint32) *coretypes.ResultTx {
	return &coretypes.ResultTx{
		Hash:   []byte{0xab, 0xcd, 0xef},
		Height: 77,
		TxResult: abci.ResponseDeliverTx{
			Code:      code,
			Codespace: "wasm",
			GasWanted: 200000,
			GasUsed:   150000,
			Log:       "raw log",
			Events: []abci.Event{
				{Type: "message"},
				{Type: "wasm"},
			},
		},
	}
}

func TestBroadcaster_Success(t *testing.T) {
	fake := &fakeTxBroadcaster{
		broadcastResult: acceptedBroadcast(),
		statuses:        []*coretypes.ResultTx{includedTx(0)},
	}
	broadcaster := NewBroadcaster(quietLogger(), fake)

	result, err := broadcaster.SignAndBroadcast(context.Background(), nil, nil, "memo")
	require.NoError(t, err)

	assert.Equal(t, "ABCDEF", result.TxHash)
	assert.Equal(t, int64(77), result.Height)
	assert.Equal(t, int64(150000), result.GasUsed)
	assert.Len(t, result.Events, 2)
}

func TestBroadcaster_RejectedInCheckTx(t *testing.T) {
	fake := &fakeTxBroadcaster{
		broadcastResult: &txtypes.BroadcastTxResponse{
			TxResponse: &sdk.TxResponse{TxHash: "ABCDEF", Code: 13, Codespace: "sdk", RawLog: "insufficient fee"},
		},
	}
	broadcaster := NewBroadcaster(quietLogger(), fake)

	_, err := broadcaster.SignAndBroadcast(context.Background(), nil, nil, "")
	assert.ErrorIs(t, err, ErrBroadcastRejected)
	assert.Contains(t, err.Error(), "insufficient fee")
	assert.Equal(t, 0, fake.statusCalls)
}

func TestBroadcaster_FailedOnChain(t *testing.T) {
	fake := &fakeTxBroadcaster{
		broadcastResult: acceptedBroadcast(),
		statuses:        []*coretypes.ResultTx{includedTx(5)},
	}
	broadcaster := NewBroadcaster(quietLogger(), fake)

	result, err := broadcaster.SignAndBroadcast(context.Background(), nil, nil, "")
	assert.ErrorIs(t, err, ErrTxFailed)
	require.NotNil(t, result)
	assert.Equal(t, uint32(5), result.Code)
}

func TestBroadcaster_NotIncluded(t *testing.T) {
	fake := &fakeTxBroadcaster{broadcastResult: acceptedBroadcast()}
	broadcaster := NewBroadcaster(quietLogger(), fake)

	_, err := broadcaster.SignAndBroadcast(context.Background(), nil, nil, "")
	assert.ErrorIs(t, err, ErrTxNotIncluded)
}

func TestPollingBroadcaster_FindsTxOnLaterAttempt(t *testing.T) {
	fake := &fakeTxBroadcaster{
		statuses: []*coretypes.ResultTx{nil, nil, includedTx(0)},
	}
	poller, err := NewPollingTxBroadcaster(5, time.Millisecond, quietLogger(), fake)
	require.NoError(t, err)

	status, err := poller.checkTxStatus(context.Background(), "ABCDEF")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, 3, fake.statusCalls)
}

func TestPollingBroadcaster_ExhaustsAttempts(t *testing.T) {
	fake := &fakeTxBroadcaster{}
	poller, err := NewPollingTxBroadcaster(3, time.Millisecond, quietLogger(), fake)
	require.NoError(t, err)

	status, err := poller.checkTxStatus(context.Background(), "ABCDEF")
	assert.NoError(t, err)
	assert.Nil(t, status)
	assert.Equal(t, 3, fake.statusCalls)
}

func TestPollingBroadcaster_StopsOnError(t *testing.T) {
	fake := &fakeTxBroadcaster{statusErr: errors.New("connection reset")}
	poller, err := NewPollingTxBroadcaster(3, time.Millisecond, quietLogger(), fake)
	require.NoError(t, err)

	_, err = poller.checkTxStatus(context.Background(), "ABCDEF")
	assert.EqualError(t, err, "connection reset")
	assert.Equal(t, 1, fake.statusCalls)
}

func TestPollingBroadcaster_RespectsContext(t *testing.T) {
	fake := &fakeTxBroadcaster{}
	poller, err := NewPollingTxBroadcaster(3, time.Hour, quietLogger(), fake)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = poller.checkTxStatus(ctx, "ABCDEF")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fake.statusCalls)
}

func TestRetryableBroadcaster_RetriesErrors(t *testing.T) {
	fake := &fakeTxBroadcaster{
		broadcastResult: acceptedBroadcast(),
		broadcastErrs:   []error{errors.New("eof"), nil},
	}
	retryable, err := NewRetryableBroadcaster(2, time.Millisecond, quietLogger(), fake)
	require.NoError(t, err)

	result, err := retryable.signAndBroadcast(context.Background(), nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF", result.TxResponse.TxHash)
	assert.Equal(t, 2, fake.broadcastCalls)
}

func TestRetryableBroadcaster_SingleAttemptByDefault(t *testing.T) {
	fake := &fakeTxBroadcaster{
		broadcastErrs: []error{errors.New("eof"), nil},
	}
	retryable, err := NewRetryableBroadcaster(0, time.Millisecond, quietLogger(), fake)
	require.NoError(t, err)

	_, err = retryable.signAndBroadcast(context.Background(), nil, nil, "")
	assert.EqualError(t, err, "eof")
	assert.Equal(t, 1, fake.broadcastCalls)
}

func TestRetryableBroadcaster_StopsWaitingOnCancel(t *testing.T) {
	fake := &fakeTxBroadcaster{
		broadcastErrs: []error{errors.New("eof"), errors.New("eof")},
		statusErr:     errors.New("connection reset"),
	}
	retryable, err := NewRetryableBroadcaster(3, time.Hour, quietLogger(), fake)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = retryable.signAndBroadcast(ctx, nil, nil, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, fake.broadcastCalls)

	_, err = retryable.checkTxStatus(ctx, "ABCDEF")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, fake.statusCalls)
}

func TestIsSuccess(t *testing.T) {
	_, err := IsSuccess(nil)
	assert.Error(t, err)

	_, err = IsSuccess(&txtypes.BroadcastTxResponse{})
	assert.Error(t, err)

	ok, err := IsSuccess(acceptedBroadcast())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsSuccess(&txtypes.BroadcastTxResponse{TxResponse: &sdk.TxResponse{Code: 5}})
	require.NoError(t, err)
	assert.False(t, ok)
}

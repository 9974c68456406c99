package tx

import "errors"

var (
	ErrNoGasPrice  = errors.New("no known gas price")
	ErrNoGasFactor = errors.New("no known gas factor")

	// ErrBroadcastRejected means the node refused the transaction in CheckTx.
	ErrBroadcastRejected = errors.New("transaction rejected by node")
	// ErrTxFailed means the transaction was included in a block but its execution failed.
	ErrTxFailed = errors.New("transaction failed on chain")
	// ErrTxNotIncluded means polling gave up before the transaction showed up in a block.
	ErrTxNotIncluded = errors.New("transaction not included")
)

package chainclient

import (
	"fmt"
	"time"

	"github.com/dorahacksglobal/appchain-grant-vota/chains"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/encoding"
	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/rpc"
	"github.com/dorahacksglobal/appchain-grant-vota/log"
)

// Options carries everything needed to open a connection to a network.
type Options struct {
	Network  *chains.NetworkData
	Encoding *encoding.Config
	Logger   *log.Logger

	GasAdjustment float64

	RpcRetryAttempts uint
	RpcRetryDelay    time.Duration

	TxPollAttempts uint
	TxPollDelay    time.Duration
}

func (o *Options) validate() error {
	if o.Network == nil {
		return fmt.Errorf("no network given")
	}
	if o.Encoding == nil {
		return fmt.Errorf("no encoding config given")
	}
	if o.Logger == nil {
		return fmt.Errorf("no logger given")
	}
	return o.Network.Validate()
}

// dial opens a fresh rpc connection. Every client owns its own connection.
func dial(opts *Options) (rpc.RpcClient, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	rpcLogger := opts.Logger.ApplyPrefix("[rpc]")
	cometClient, err := rpc.NewCometClient(opts.Network.RpcUrl, opts.Network.GrpcUrl, opts.Encoding, rpcLogger)
	if err != nil {
		return nil, err
	}

	return rpc.NewRetryableRpcClient(opts.RpcRetryAttempts, opts.RpcRetryDelay, cometClient)
}

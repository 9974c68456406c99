package chainclient

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorahacksglobal/appchain-grant-vota/cosmos/rpc"
)

// contractStateRpcClient answers smart queries with a canned response and records the query.
type contractStateRpcClient struct {
	rpc.RpcClient

	response      []byte
	lastContract  string
	lastQueryData []byte
}

func (c *contractStateRpcClient) SmartContractState(_ context.Context, contractAddress string, queryData []byte) ([]byte, error) {
	c.lastContract = contractAddress
	c.lastQueryData = queryData
	return c.response, nil
}

func TestQuerySmart(t *testing.T) {
	fake := &contractStateRpcClient{response: []byte(`{"admins":["dora1a","dora1b"]}`)}

	var response struct {
		Admins []string `json:"admins"`
	}
	err := querySmart(context.Background(), fake, "dora1contract", map[string]any{"admin_list": struct{}{}}, &response)
	require.NoError(t, err)

	assert.Equal(t, "dora1contract", fake.lastContract)
	assert.JSONEq(t, `{"admin_list":{}}`, string(fake.lastQueryData))
	assert.Equal(t, []string{"dora1a", "dora1b"}, response.Admins)
}

func TestQuerySmart_BadResponse(t *testing.T) {
	fake := &contractStateRpcClient{response: []byte(`not json`)}

	var response map[string]any
	err := querySmart(context.Background(), fake, "dora1contract", map[string]any{"round_id": struct{}{}}, &response)
	assert.Error(t, err)
}

func TestCompressWasm(t *testing.T) {
	wasmCode := append([]byte("\x00asm\x01\x00\x00\x00"), bytes.Repeat([]byte{0x01}, 512)...)

	compressed, err := CompressWasm(wasmCode)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(wasmCode))

	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	decompressed, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, wasmCode, decompressed)

	// Already compressed code is passed through
	again, err := CompressWasm(compressed)
	require.NoError(t, err)
	assert.Equal(t, compressed, again)

	_, err = CompressWasm(nil)
	assert.Error(t, err)
}

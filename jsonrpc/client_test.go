package trpjsonrpc_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/trp"
	trpjsonrpc "github.com/blockberries/trp/jsonrpc"
	"github.com/blockberries/trp/types"
)

func sampleProto() types.ProtoTx {
	return types.ProtoTx{
		Tir: &types.TirEnvelope{
			Version:  "v1alpha1",
			Bytecode: "aGVsbG8=",
			Encoding: "base64",
		},
		Args: types.Args{
			"receiver": types.String("addr1qxyz"),
			"amount":   types.Int(1000000),
		},
	}
}

// jsonServer returns an httptest server that replies to every request
// with the given status and body, recording the last request.
func jsonServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	rec := &capturedRequest{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		rec.header = r.Header.Clone()
		rec.body = raw
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, rec
}

type capturedRequest struct {
	header http.Header
	body   []byte
}

func newClient(t *testing.T, opts trpjsonrpc.Options) *trpjsonrpc.Client {
	t.Helper()
	c, err := trpjsonrpc.New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := trpjsonrpc.New(trpjsonrpc.Options{
		Headers: map[string]string{"Authorization": "Bearer x"},
		EnvArgs: types.Args{"network": types.String("preview")},
	})
	require.Error(t, err)
	assert.Equal(t, trp.KindValidation, trp.KindOf(err))
}

func TestResolveSuccess(t *testing.T) {
	ts, _ := jsonServer(t, http.StatusOK, `{"jsonrpc":"2.0","result":{"tx":"abc123"}}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	envelope, err := c.Resolve(context.Background(), sampleProto())
	require.NoError(t, err)
	assert.Equal(t, types.TxEnvelope{Tx: "abc123"}, envelope)
}

func TestResolveRequestShape(t *testing.T) {
	ts, rec := jsonServer(t, http.StatusOK, `{"result":{"tx":"abc"}}`)
	c := newClient(t, trpjsonrpc.Options{
		Endpoint: ts.URL,
		EnvArgs:  types.Args{"network": types.String("preview")},
	})

	_, err := c.Resolve(context.Background(), sampleProto())
	require.NoError(t, err)

	var req map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.body, &req))
	assert.JSONEq(t, `"2.0"`, string(req["jsonrpc"]))
	assert.JSONEq(t, `"trp.resolve"`, string(req["method"]))

	// params.tir and params.args pass through verbatim; params.env
	// carries the configured env args.
	assert.JSONEq(t, `{
		"tir": {"version":"v1alpha1","bytecode":"aGVsbG8=","encoding":"base64"},
		"args": {"receiver":"addr1qxyz","amount":1000000},
		"env": {"network":"preview"}
	}`, string(req["params"]))

	// The id is a fresh UUID string.
	var id string
	require.NoError(t, json.Unmarshal(req["id"], &id))
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "id should be a valid UUID")
}

func TestResolveAbsentFieldsTravelAsNull(t *testing.T) {
	ts, rec := jsonServer(t, http.StatusOK, `{"result":{"tx":"abc"}}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	_, err := c.Resolve(context.Background(), types.ProtoTx{})
	require.NoError(t, err)

	var req map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.body, &req))
	assert.JSONEq(t, `{"tir":null,"args":null,"env":null}`, string(req["params"]))
}

func TestResolveGeneratesFreshIDs(t *testing.T) {
	ts, rec := jsonServer(t, http.StatusOK, `{"result":{"tx":"abc"}}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		_, err := c.Resolve(context.Background(), sampleProto())
		require.NoError(t, err)

		var req struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.body, &req))
		require.False(t, seen[req.ID], "id %q reused", req.ID)
		seen[req.ID] = true
	}
}

func TestResolveHeaderMerging(t *testing.T) {
	ts, rec := jsonServer(t, http.StatusOK, `{"result":{"tx":"abc"}}`)
	c := newClient(t, trpjsonrpc.Options{
		Endpoint: ts.URL,
		Headers: map[string]string{
			"Authorization": "Bearer token",
			"Content-Type":  "application/json; charset=utf-8",
		},
	})

	_, err := c.Resolve(context.Background(), sampleProto())
	require.NoError(t, err)

	assert.Equal(t, "Bearer token", rec.header.Get("Authorization"))
	// Caller-supplied Content-Type overrides the default.
	assert.Equal(t, "application/json; charset=utf-8", rec.header.Get("Content-Type"))
}

func TestResolveDefaultContentType(t *testing.T) {
	ts, rec := jsonServer(t, http.StatusOK, `{"result":{"tx":"abc"}}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	_, err := c.Resolve(context.Background(), sampleProto())
	require.NoError(t, err)
	assert.Equal(t, "application/json", rec.header.Get("Content-Type"))
}

func TestResolveRPCError(t *testing.T) {
	ts, _ := jsonServer(t, http.StatusOK, `{"error":{"message":"bad tir"}}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	_, err := c.Resolve(context.Background(), sampleProto())
	require.Error(t, err)

	e, ok := trp.AsError(err)
	require.True(t, ok)
	assert.Equal(t, trp.KindRPC, e.Kind)
	assert.Equal(t, "bad tir", e.Message)
	assert.Nil(t, e.Data)
}

func TestResolveRPCErrorData(t *testing.T) {
	ts, _ := jsonServer(t, http.StatusOK, `{"error":{"message":"bad tir","data":{"field":"tir"}}}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	_, err := c.Resolve(context.Background(), sampleProto())
	e, ok := trp.AsError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"field": "tir"}, e.Data)
}

func TestResolveRPCErrorDefaultMessage(t *testing.T) {
	ts, _ := jsonServer(t, http.StatusOK, `{"error":{}}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	_, err := c.Resolve(context.Background(), sampleProto())
	e, ok := trp.AsError(err)
	require.True(t, ok)
	assert.Equal(t, trp.KindRPC, e.Kind)
	assert.Equal(t, "Unknown error", e.Message)
}

func TestResolveHTTPError(t *testing.T) {
	ts, _ := jsonServer(t, http.StatusInternalServerError, `internal error`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	_, err := c.Resolve(context.Background(), sampleProto())
	e, ok := trp.AsError(err)
	require.True(t, ok)
	assert.Equal(t, trp.KindHTTP, e.Kind)
	assert.Equal(t, "HTTP Error 500", e.Message)
	assert.Equal(t, trp.HTTPErrorData{Status: 500, Body: "internal error"}, e.Data)
}

func TestResolveHTTPErrorWinsOverJSONBody(t *testing.T) {
	// A 4xx/5xx status maps to HttpError even when the body is a
	// well-formed JSON-RPC error.
	ts, _ := jsonServer(t, http.StatusBadRequest, `{"error":{"message":"bad tir"}}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	_, err := c.Resolve(context.Background(), sampleProto())
	assert.Equal(t, trp.KindHTTP, trp.KindOf(err))
}

func TestResolveMalformedResponse(t *testing.T) {
	ts, _ := jsonServer(t, http.StatusOK, `{"status":"ok"}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	_, err := c.Resolve(context.Background(), sampleProto())
	e, ok := trp.AsError(err)
	require.True(t, ok)
	assert.Equal(t, trp.KindMalformedResponse, e.Kind)
	assert.Equal(t, "No result found in response", e.Message)
	assert.Nil(t, e.Data)
}

func TestResolveDecodeError(t *testing.T) {
	ts, _ := jsonServer(t, http.StatusOK, `not json at all`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	_, err := c.Resolve(context.Background(), sampleProto())
	assert.Equal(t, trp.KindDecode, trp.KindOf(err))
}

func TestResolveNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	endpoint := ts.URL
	ts.Close()

	c := newClient(t, trpjsonrpc.Options{Endpoint: endpoint})
	_, err := c.Resolve(context.Background(), sampleProto())
	assert.Equal(t, trp.KindNetwork, trp.KindOf(err))
}

func TestResolveCancellation(t *testing.T) {
	ts, _ := jsonServer(t, http.StatusOK, `{"result":{"tx":"abc"}}`)
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Resolve(ctx, sampleProto())
	assert.Equal(t, trp.KindNetwork, trp.KindOf(err))
}

func TestCloseIsIdempotent(t *testing.T) {
	ts, _ := jsonServer(t, http.StatusOK, `{"result":{"tx":"abc"}}`)
	c, err := trpjsonrpc.New(trpjsonrpc.Options{Endpoint: ts.URL})
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestResolveAfterCloseFailsFast(t *testing.T) {
	ts, rec := jsonServer(t, http.StatusOK, `{"result":{"tx":"abc"}}`)
	c, err := trpjsonrpc.New(trpjsonrpc.Options{Endpoint: ts.URL})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = c.Resolve(context.Background(), sampleProto())
	assert.Equal(t, trp.KindClientClosed, trp.KindOf(err))
	assert.Nil(t, rec.body, "no request should reach the server")
}

func TestOptionsAreCopied(t *testing.T) {
	ts, rec := jsonServer(t, http.StatusOK, `{"result":{"tx":"abc"}}`)
	headers := map[string]string{"Authorization": "Bearer token"}
	env := types.Args{"network": types.String("preview")}
	c := newClient(t, trpjsonrpc.Options{Endpoint: ts.URL, Headers: headers, EnvArgs: env})

	// Mutations after construction must not leak into requests.
	headers["Authorization"] = "Bearer stolen"
	env["network"] = types.String("mainnet")

	_, err := c.Resolve(context.Background(), sampleProto())
	require.NoError(t, err)

	assert.Equal(t, "Bearer token", rec.header.Get("Authorization"))
	var req struct {
		Params struct {
			Env map[string]any `json:"env"`
		} `json:"params"`
	}
	require.NoError(t, json.Unmarshal(rec.body, &req))
	assert.Equal(t, "preview", req.Params.Env["network"])
}

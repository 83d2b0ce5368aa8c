package invoke_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/hostbridge/internal/logging"
	"github.com/aretw0/hostbridge/pkg/adapters/httprpc"
	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/env"
	"github.com/aretw0/hostbridge/pkg/invoke"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callFunc func(ctx context.Context, cmd string, args map[string]any) (any, error)

func (f callFunc) Call(ctx context.Context, cmd string, args map[string]any) (any, error) {
	return f(ctx, cmd, args)
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []string
	modes []string
	errs  []error
}

func (r *fakeRecorder) ObserveInvoke(cmd, mode string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)
	r.modes = append(r.modes, mode)
	r.errs = append(r.errs, err)
}

// quoteServer mimics a backend that knows one ticker.
func quoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Cmd == "get_market_quote" && req.Args["symbol"] == "AAPL" {
			w.Write([]byte(`{"success":true,"data":{"symbol":"AAPL","price":101.5}}`))
			return
		}
		w.Write([]byte(`{"success":false,"error":"symbol not found"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func networked(t *testing.T, baseURL string, opts ...invoke.Option) *invoke.Invoker {
	t.Helper()
	opts = append([]invoke.Option{
		invoke.WithTransport(httprpc.NewClient(baseURL)),
		invoke.WithLogger(logging.NewNop()),
	}, opts...)
	inv, err := invoke.New(env.Networked(), opts...)
	require.NoError(t, err)
	return inv
}

func TestNew_RequiresTransportForEnvironment(t *testing.T) {
	_, err := invoke.New(env.Embedded())
	assert.ErrorIs(t, err, invoke.ErrNoChannel)

	_, err = invoke.New(env.Networked())
	assert.ErrorIs(t, err, invoke.ErrNoTransport)

	// The unused transport may be absent.
	_, err = invoke.New(env.Networked(), invoke.WithTransport(callFunc(nil)))
	assert.NoError(t, err)
}

func TestInvoke_Networked_Success(t *testing.T) {
	srv := quoteServer(t)
	rec := &fakeRecorder{}
	inv := networked(t, srv.URL, invoke.WithRecorder(rec))

	got, err := inv.Invoke(context.Background(), "get_market_quote", map[string]any{"symbol": "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"symbol": "AAPL", "price": 101.5}, got)

	assert.Equal(t, []string{"get_market_quote"}, rec.calls)
	assert.Equal(t, []string{"networked"}, rec.modes)
	assert.Nil(t, rec.errs[0])
}

func TestInvoke_Networked_CommandFailure(t *testing.T) {
	srv := quoteServer(t)
	inv := networked(t, srv.URL)

	_, err := inv.Invoke(context.Background(), "get_market_quote", map[string]any{"symbol": "ZZZZ"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommand)
	assert.Equal(t, "symbol not found", err.Error())

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "get_market_quote", de.Cmd)
}

func TestInvoke_Networked_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := networked(t, srv.URL).Invoke(context.Background(), "anything", nil)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "500")
}

func TestInvoke_Embedded_PassesThroughUntouched(t *testing.T) {
	// An envelope-shaped value from the channel is not unwrapped.
	envelope := map[string]any{"success": false, "error": "looks like a failure"}
	var gotArgs map[string]any
	ch := callFunc(func(_ context.Context, cmd string, args map[string]any) (any, error) {
		assert.Equal(t, "greet", cmd)
		gotArgs = args
		return envelope, nil
	})

	inv, err := invoke.New(env.Embedded(), invoke.WithChannel(ch), invoke.WithLogger(logging.NewNop()))
	require.NoError(t, err)

	got, err := inv.Invoke(context.Background(), "greet", nil)
	require.NoError(t, err)
	assert.Equal(t, envelope, got)
	assert.Equal(t, map[string]any{}, gotArgs)
}

func TestInvoke_Embedded_ErrorIsUnchanged(t *testing.T) {
	boom := errors.New("host rejected")
	ch := callFunc(func(context.Context, string, map[string]any) (any, error) { return nil, boom })

	inv, err := invoke.New(env.Embedded(), invoke.WithChannel(ch))
	require.NoError(t, err)

	_, err = inv.Invoke(context.Background(), "x", nil)
	assert.Same(t, boom, err)
}

func TestInvoke_ConcurrentCallsAreIndependent(t *testing.T) {
	release := make(chan struct{})
	ch := callFunc(func(_ context.Context, cmd string, _ map[string]any) (any, error) {
		if cmd == "slow" {
			<-release
		}
		return cmd, nil
	})
	inv, err := invoke.New(env.Embedded(), invoke.WithChannel(ch))
	require.NoError(t, err)

	slow := inv.Go(context.Background(), "slow", nil)
	fast := inv.Go(context.Background(), "fast", nil)

	select {
	case r := <-fast:
		require.NoError(t, r.Err)
		assert.Equal(t, "fast", r.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("fast call blocked behind slow call")
	}

	close(release)
	r := <-slow
	require.NoError(t, r.Err)
	assert.Equal(t, "slow", r.Value)

	_, open := <-slow
	assert.False(t, open, "result channel closes after delivery")
}

type quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func TestAs_DecodesIntoStruct(t *testing.T) {
	srv := quoteServer(t)
	inv := networked(t, srv.URL)

	q, err := invoke.As[quote](context.Background(), inv, "get_market_quote", map[string]any{"symbol": "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, quote{Symbol: "AAPL", Price: 101.5}, q)
}

func TestInvokeInto_DecodeFailureIsProtocolError(t *testing.T) {
	ch := callFunc(func(context.Context, string, map[string]any) (any, error) {
		return map[string]any{"price": []any{"not", "a", "number"}}, nil
	})
	inv, err := invoke.New(env.Embedded(), invoke.WithChannel(ch))
	require.NoError(t, err)

	var q quote
	err = inv.InvokeInto(context.Background(), "get_market_quote", nil, &q)
	assert.ErrorIs(t, err, domain.ErrProtocol)
}

func TestInvoke_ContextCancel(t *testing.T) {
	ch := callFunc(func(ctx context.Context, _ string, _ map[string]any) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	inv, err := invoke.New(env.Embedded(), invoke.WithChannel(ch))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = inv.Invoke(ctx, "x", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

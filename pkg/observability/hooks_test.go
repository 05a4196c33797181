package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRelayHooks{}
	r.OnRequest(ctx, "/zgc/cropValues", 3)
	r.OnRejected(ctx, "/zgc/cropValues", errors.New("bad args"))
	r.OnBatchStart(ctx, "batch-1", 9)
	r.OnBatchComplete(ctx, "batch-1", 9, 0, time.Second)
	r.OnSend(ctx, "/izzy/cropValues/001", 4, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "panner")
	c.OnCacheMiss(ctx, "panner")
	c.OnCacheSet(ctx, "panner", 128)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/panner")
	h.OnResponse(ctx, "GET", "/v1/panner", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Relay().(NoopRelayHooks); !ok {
		t.Error("Relay() should return NoopRelayHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customRelay := &testRelayHooks{}
	SetRelayHooks(customRelay)
	if Relay() != customRelay {
		t.Error("SetRelayHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Relay().(NoopRelayHooks); !ok {
		t.Error("Reset() should restore NoopRelayHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRelayHooks{}
	SetRelayHooks(custom)

	SetRelayHooks(nil)
	if Relay() != custom {
		t.Error("SetRelayHooks(nil) should be ignored")
	}

	Reset()
}

type testRelayHooks struct{ NoopRelayHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

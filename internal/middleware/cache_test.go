package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/config"
)

func cacheContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestCacheKeyChangesWithGeneration(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	c := cacheContext(http.MethodGet, "/users?skip=0")

	k0 := cacheKeyFrom(cfg, "0", c)
	k1 := cacheKeyFrom(cfg, "1", c)
	if k0 == k1 {
		t.Errorf("generation bump did not change the key: %q", k0)
	}
	if again := cacheKeyFrom(cfg, "0", c); again != k0 {
		t.Errorf("same generation produced different keys: %q vs %q", k0, again)
	}
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	a := cacheKeyFrom(cfg, "0", cacheContext(http.MethodGet, "/users?skip=0"))
	b := cacheKeyFrom(cfg, "0", cacheContext(http.MethodGet, "/users?skip=50"))
	if a != b {
		t.Error("route strategy should ignore the query string")
	}

	cfg.KeyStrategy = "route_query"
	a = cacheKeyFrom(cfg, "0", cacheContext(http.MethodGet, "/users?skip=0"))
	b = cacheKeyFrom(cfg, "0", cacheContext(http.MethodGet, "/users?skip=50"))
	if a == b {
		t.Error("route_query strategy should include the query string")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`[{"id":"u1"}]`)

	enc, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatal(err)
	}
	status, gotHdr, gotBody, ok := decodePayload(enc)
	if !ok {
		t.Fatal("payload did not decode")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("header lost: %v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	if _, _, _, ok := decodePayload([]byte{0, 0}); ok {
		t.Error("truncated payload accepted")
	}
}

func TestCacheInvalidatorNoRedisPassesThrough(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true}
	mw := NewCacheInvalidator(cfg, nil)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusCreated)
	})
	if err := h(cacheContext(http.MethodPost, "/projects")); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("next handler not reached")
	}
}

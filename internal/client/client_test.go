package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := &MemoryStore{}
	return New(srv.URL, store), store
}

func TestRequestParsesJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"smoke"}`))
	})

	got, err := c.Request(context.Background(), http.MethodGet, "/projects/1", nil)
	require.NoError(t, err)
	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "smoke", m["name"])
}

func TestRequestFallsBackToText(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain response"))
	})

	got, err := c.Request(context.Background(), http.MethodGet, "/healthz", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain response", got)
}

func TestRequestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})
	require.NoError(t, store.SetToken("tok123"))

	_, err := c.Request(context.Background(), http.MethodGet, "/auth/me", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestUnauthorizedClearsTokenBeforeReturning(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid token"}`))
	})
	require.NoError(t, store.SetToken("stale"))

	_, err := c.Request(context.Background(), http.MethodGet, "/users", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, store.Token())
}

func TestErrorMessageNormalization(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail field wins", 404, `{"detail":"Project not found"}`, "Project not found"},
		{"message fallback", 400, `{"message":"bad input"}`, "bad input"},
		{"generic on empty body", 500, "", "API error: 500"},
		{"generic on non-JSON body", 502, "<html>bad gateway</html>", "API error: 502"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := c.Request(context.Background(), http.MethodGet, "/x", nil)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Error())
		})
	}
}

func TestLoginStoresAccessToken(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{
			"user": {"id":"u1","email":"a@b.c","username":"alice","role":"ADMIN"},
			"access": {"token":"acc","expires":"2026-01-01T00:00:00Z"},
			"refresh": {"token":"ref","expires":"2026-02-01T00:00:00Z"}
		}`))
	})

	res, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "acc", store.Token())
}

func TestCreateUserBlockedByValidation(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	})

	// the form gate runs before any request is issued
	in := CreateUserInput{Email: "a@b.c", Username: "ab", Password: "x"}
	if err := ValidateNewUser(in.Username, in.Password, "x"); err == nil {
		_, err := c.CreateUser(context.Background(), in)
		require.NoError(t, err)
	}

	assert.Equal(t, 0, calls)
}

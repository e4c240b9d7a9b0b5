package bridgemessenger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, received *[]bridgeMessage) (*httptest.Server, url.URL) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/send", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("content-type"))
		m := bridgeMessage{}
		require.Nil(t, json.NewDecoder(r.Body).Decode(&m))
		*received = append(*received, m)
		w.WriteHeader(status)
		w.Write([]byte(`{"status": "ok"}`))
	}))
	baseURL, err := url.Parse(server.URL)
	require.Nil(t, err)
	return server, *baseURL
}

func TestDelivered(t *testing.T) {
	// Setup ---
	received := []bridgeMessage{}
	server, baseURL := newServer(t, http.StatusOK, &received)
	defer server.Close()
	messenger := New(baseURL, time.Second)

	// Exercise ---
	err := messenger.Deliver(context.Background(), "6281234567890@c.us", "🔔 Pengingat: meeting")

	// Verify ---
	assert := require.New(t)
	assert.Nil(err)
	assert.Equal([]bridgeMessage{{UserID: "6281234567890@c.us", Message: "🔔 Pengingat: meeting"}}, received)
}

func TestNonSuccessStatusIsFailure(t *testing.T) {
	received := []bridgeMessage{}
	server, baseURL := newServer(t, http.StatusServiceUnavailable, &received)
	defer server.Close()
	messenger := New(baseURL, time.Second)

	err := messenger.Deliver(context.Background(), "u1", "hi")

	assert := require.New(t)
	assert.NotNil(err)
	assert.Contains(err.Error(), "503")
}

func TestTransportErrorIsFailure(t *testing.T) {
	received := []bridgeMessage{}
	server, baseURL := newServer(t, http.StatusOK, &received)
	server.Close()
	messenger := New(baseURL, time.Second)

	err := messenger.Deliver(context.Background(), "u1", "hi")

	require.NotNil(t, err)
}

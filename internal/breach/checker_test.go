package breach

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashParts(password string) (prefix, suffix string) {
	sum := sha1.Sum([]byte(password))
	full := strings.ToUpper(hex.EncodeToString(sum[:]))
	return full[:5], full[5:]
}

func TestCheckBreachedWithCount(t *testing.T) {
	prefix, suffix := hashParts("password123")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/range/"+prefix, r.URL.Path)
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		// Realistic body: other suffixes around the match, CRLF-delimited.
		body := "0018A45C4D1DEF81644B54AB7F969B88D65:3\r\n" +
			suffix + ":42\r\n" +
			"011053FD0102E94D6AE2F8B83D76FAF94F6:1"
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewWithClient(srv.URL, "", srv.Client())
	res := c.Check(context.Background(), "password123")

	assert.Equal(t, StatusBreached, res.Status)
	assert.Equal(t, 42, res.Count)
	require.NotNil(t, res.BreachedPtr())
	assert.True(t, *res.BreachedPtr())
}

func TestCheckNotBreached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0018A45C4D1DEF81644B54AB7F969B88D65:3\r\nAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA:9"))
	}))
	defer srv.Close()

	c := NewWithClient(srv.URL, "", srv.Client())
	res := c.Check(context.Background(), "zK8#qL2!wX5@")

	assert.Equal(t, StatusClear, res.Status)
	assert.Equal(t, 0, res.Count)
	require.NotNil(t, res.BreachedPtr())
	assert.False(t, *res.BreachedPtr())
}

func TestCheckSuffixIsExactMatchOnly(t *testing.T) {
	_, suffix := hashParts("hunter2")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A line whose suffix merely shares a prefix with ours must not match.
		_, _ = w.Write([]byte(suffix[:30] + "XXXXX:7"))
	}))
	defer srv.Close()

	c := NewWithClient(srv.URL, "", srv.Client())
	assert.Equal(t, StatusClear, c.Check(context.Background(), "hunter2").Status)
}

func TestCheckNon200IsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewWithClient(srv.URL, "", srv.Client())
	res := c.Check(context.Background(), "anything")

	assert.Equal(t, StatusUnknown, res.Status)
	assert.Error(t, res.Err)
	assert.Nil(t, res.BreachedPtr())
}

func TestCheckTimeoutIsUnknownAndBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	c := NewWithClient(srv.URL, "", client)

	start := time.Now()
	res := c.Check(context.Background(), "anything")
	elapsed := time.Since(start)

	assert.Equal(t, StatusUnknown, res.Status)
	assert.Error(t, res.Err)
	assert.Less(t, elapsed, time.Second, "check must return within the timeout bound")
}

func TestCheckAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("hibp-api-key"))
		_, _ = w.Write([]byte(""))
	}))
	defer srv.Close()

	c := NewWithClient(srv.URL, "test-key", srv.Client())
	assert.Equal(t, StatusClear, c.Check(context.Background(), "x").Status)
}

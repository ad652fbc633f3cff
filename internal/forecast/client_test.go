package forecast_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/skitrip/internal/forecast"
)

func TestClient_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(twoDayPage()))
	}))
	defer srv.Close()

	c := forecast.NewClient(srv.URL, time.Second)
	r, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.True(t, strings.HasPrefix(gotUA, "Mozilla/5.0"), "browser user agent expected, got %q", gotUA)
	require.Len(t, r.Days, 2)
	assert.Equal(t, 185, r.Snow.TopDepth)
}

func TestClient_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	c := forecast.NewClient(srv.URL, time.Second)
	_, err := c.Fetch(context.Background())
	require.Error(t, err)

	var fe *forecast.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	c := forecast.NewClient("http://127.0.0.1:1/forecast", time.Second)
	_, err := c.Fetch(context.Background())
	require.Error(t, err)

	var fe *forecast.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.StatusCode)
	assert.NotNil(t, fe.Unwrap())
}

func TestClient_Fetch_Timeout(t *testing.T) {
	slowSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer slowSrv.Close()

	c := forecast.NewClient(slowSrv.URL, 50*time.Millisecond)
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
}

func TestClient_Fetch_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	r, err := forecast.NewClient(srv.URL, 0).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, r.Days)
}

package enrich

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSerpAPI(srv *httptest.Server) *SerpAPI {
	return NewSerpAPI("secret-key",
		WithEndpoint(srv.URL),
		WithHTTPClient(srv.Client()),
		WithInterval(0),
		WithLogger(quietLogger()),
	)
}

func TestSerpAPI_Enrich(t *testing.T) {
	t.Parallel()

	t.Run("returns first organic snippet", func(t *testing.T) {
		t.Parallel()

		var query atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query.Store(r.URL.Query())
			_, _ = io.WriteString(w, `{"organic_results":[{"snippet":" Acme LLC is a holding company. "},{"snippet":"second"}]}`)
		}))
		defer srv.Close()

		got := newTestSerpAPI(srv).Enrich(context.Background(), "Acme LLC")

		assert.Equal(t, "Acme LLC is a holding company.", got)
		q, ok := query.Load().(url.Values)
		require.True(t, ok)
		assert.Equal(t, []string{"google"}, q["engine"])
		assert.Equal(t, []string{"Acme LLC"}, q["q"])
		assert.Equal(t, []string{"secret-key"}, q["api_key"])
		assert.Equal(t, []string{"1"}, q["num"])
	})

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "no organic results", status: http.StatusOK, body: `{"search_metadata":{}}`},
		{name: "api error", status: http.StatusOK, body: `{"error":"Invalid API key."}`},
		{name: "bad status", status: http.StatusUnauthorized, body: `{}`},
		{name: "malformed json", status: http.StatusOK, body: `{"organic_results":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			assert.Empty(t, newTestSerpAPI(srv).Enrich(context.Background(), "Acme LLC"))
		})
	}

	t.Run("unreachable endpoint yields empty text", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		s := newTestSerpAPI(srv)
		srv.Close()

		assert.Empty(t, s.Enrich(context.Background(), "Acme LLC"))
	})

	t.Run("cancelled context yields empty text", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			_, _ = io.WriteString(w, `{"organic_results":[{"snippet":"x"}]}`)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Empty(t, newTestSerpAPI(srv).Enrich(ctx, "Acme LLC"))
		assert.Equal(t, int32(0), calls.Load())
	})
}

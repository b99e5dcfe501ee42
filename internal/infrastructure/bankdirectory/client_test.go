package bankdirectory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"digibank/internal/config"
	"digibank/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string, timeoutSeconds int) *Client {
	return NewClient(&config.BankDirectoryConfig{
		BaseURL:         baseURL,
		TimeoutSeconds:  timeoutSeconds,
		CacheTTLMinutes: 1,
	}, nil)
}

func TestResolve(t *testing.T) {
	t.Run("parses a known bank", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/260", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ispb":"18236120","name":"NU PAGAMENTOS - IP","code":260,"fullName":"NU PAGAMENTOS S.A."}`))
		}))
		defer srv.Close()

		bank, err := newTestClient(srv.URL, 5).Resolve(context.Background(), "260")
		require.NoError(t, err)
		assert.Equal(t, 260, bank.Code)
		assert.Equal(t, "NU PAGAMENTOS - IP", bank.Name)
		assert.Equal(t, "18236120", bank.ISPB)
	})

	t.Run("unknown code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"bank not found"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL, 5).Resolve(context.Background(), "999")
		assert.ErrorIs(t, err, service.ErrBankNotFound)
	})

	t.Run("upstream error is not a not-found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL, 5).Resolve(context.Background(), "260")
		require.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrBankNotFound)
		assert.NotErrorIs(t, err, service.ErrDirectoryTimeout)
	})

	t.Run("slow upstream times out", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := newTestClient(srv.URL, 1).Resolve(context.Background(), "260")
		assert.ErrorIs(t, err, service.ErrDirectoryTimeout)
	})

	t.Run("caller context cancellation surfaces as timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := newTestClient(srv.URL, 30).Resolve(ctx, "260")
		assert.ErrorIs(t, err, service.ErrDirectoryTimeout)
	})

	t.Run("no caching without redis", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Write([]byte(`{"ispb":"00000000","name":"BCO DO BRASIL S.A.","code":1,"fullName":"Banco do Brasil S.A."}`))
		}))
		defer srv.Close()

		client := newTestClient(srv.URL, 5)
		for i := 0; i < 2; i++ {
			_, err := client.Resolve(context.Background(), "1")
			require.NoError(t, err)
		}
		assert.Equal(t, int32(2), hits.Load(), "every lookup goes upstream when no cache is wired")
	})
}

func TestListBanks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		w.Write([]byte(`[{"code":1,"name":"BCO DO BRASIL S.A."},{"code":260,"name":"NU PAGAMENTOS - IP"}]`))
	}))
	defer srv.Close()

	banks, err := newTestClient(srv.URL, 5).ListBanks(context.Background())
	require.NoError(t, err)
	require.Len(t, banks, 2)
	assert.Equal(t, 1, banks[0].Code)
	assert.Equal(t, 260, banks[1].Code)
}

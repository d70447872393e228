package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iseesync/internal/models"
)

// newHierarchyServer serves /api/assets/v0/ with n synthetic assets behind
// the paginated envelope, and counts page requests.
func newHierarchyServer(t *testing.T, n int, requests *atomic.Int64) *httptest.Server {
	t.Helper()

	assets := make([]models.Asset, n)
	for i := range assets {
		assets[i] = models.Asset{
			ID:   fmt.Sprintf("asset-%d", i),
			Name: fmt.Sprintf("Asset %d", i),
			Type: models.TypeAsset,
		}
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/assets/v0/" {
			http.NotFound(w, r)
			return
		}
		requests.Add(1)

		page, _ := strconv.Atoi(r.URL.Query().Get("p"))
		count, _ := strconv.Atoi(r.URL.Query().Get("count"))
		require.Positive(t, page)
		require.Positive(t, count)

		start := (page - 1) * count
		end := start + count
		if start > n {
			start = n
		}
		if end > n {
			end = n
		}

		resp := map[string]any{
			"_embedded": assets[start:end],
			"_meta":     map[string]int{"total": n},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestFetchAllPages(t *testing.T) {
	t.Run("Should issue ceil(N/P) requests and return all items exactly once", func(t *testing.T) {
		tests := []struct {
			name          string
			total         int
			pageSize      int
			expectedPages int64
		}{
			{name: "Single partial page", total: 7, pageSize: 10, expectedPages: 1},
			{name: "Exact page boundary", total: 20, pageSize: 10, expectedPages: 2},
			{name: "One item over boundary", total: 21, pageSize: 10, expectedPages: 3},
			{name: "Many pages", total: 95, pageSize: 10, expectedPages: 10},
			{name: "Empty collection", total: 0, pageSize: 10, expectedPages: 1},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var requests atomic.Int64
				server := newHierarchyServer(t, tt.total, &requests)
				defer server.Close()

				client := NewClient(server.URL, "user", "pass")
				client.SetPageSize(tt.pageSize)

				assets, err := client.GetFullHierarchy(context.Background(), false)
				require.NoError(t, err)

				assert.Equal(t, tt.expectedPages, requests.Load(), "unexpected page request count")
				assert.Len(t, assets, tt.total)

				seen := make(map[string]bool, len(assets))
				for _, a := range assets {
					assert.False(t, seen[a.ID], "duplicate item %s", a.ID)
					seen[a.ID] = true
				}
			})
		}
	})

	t.Run("Should return empty list when envelope is missing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"unexpected": true}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "user", "pass")
		assets, err := client.GetFullHierarchy(context.Background(), false)
		require.NoError(t, err)
		assert.Empty(t, assets)
	})

	t.Run("Should abort the whole fetch when a page fails", func(t *testing.T) {
		var mu sync.Mutex
		pagesServed := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page, _ := strconv.Atoi(r.URL.Query().Get("p"))
			if page == 3 {
				http.Error(w, `{"error":"boom"}`, http.StatusBadRequest)
				return
			}
			mu.Lock()
			pagesServed++
			mu.Unlock()

			items := make([]models.Asset, 10)
			for i := range items {
				items[i] = models.Asset{ID: fmt.Sprintf("p%d-%d", page, i), Name: "x"}
			}
			resp := map[string]any{
				"_embedded": items,
				"_meta":     map[string]int{"total": 40},
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewClient(server.URL, "user", "pass")
		client.SetPageSize(10)

		_, err := client.GetFullHierarchy(context.Background(), false)
		assert.Error(t, err, "partial results must not be returned")
	})
}

func TestLogin(t *testing.T) {
	t.Run("Should perform the two-step token exchange", func(t *testing.T) {
		var usedTokens []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/apilogin/login":
				var creds map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "operator", creds["username"])
				fmt.Fprint(w, `{"token":"account-token","dbs":[{"db":"acme"},{"db":"other"}]}`)
			case r.Method == http.MethodGet && r.URL.Path == "/apilogin/login/acme":
				usedTokens = append(usedTokens, r.Header.Get("Authorization"))
				fmt.Fprint(w, `{"token":"db-token"}`)
			case r.URL.Path == "/apiv4/assets/ping":
				usedTokens = append(usedTokens, r.Header.Get("Authorization"))
				fmt.Fprint(w, `{"_id":"ping","name":"ping","t":33554432}`)
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		client := NewClient(server.URL, "operator", "secret")
		dbs, err := client.Login(context.Background(), "acme")
		require.NoError(t, err)
		assert.Equal(t, []string{"acme", "other"}, dbs)

		_, err = client.GetAsset(context.Background(), "ping")
		require.NoError(t, err)

		require.Len(t, usedTokens, 2)
		assert.Equal(t, "Bearer account-token", usedTokens[0], "db selection uses the account token")
		assert.Equal(t, "Bearer db-token", usedTokens[1], "subsequent requests use the db-scoped token")
	})

	t.Run("Should fail with AuthError when the database is not available", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"token":"t","dbs":[{"db":"someone-else"}]}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "operator", "secret")
		_, err := client.Login(context.Background(), "acme")
		require.Error(t, err)
		assert.True(t, IsAuthError(err))
		assert.Contains(t, err.Error(), "acme")
	})

	t.Run("Should fail with AuthError on bad credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, "operator", "wrong")
		_, err := client.Login(context.Background(), "acme")
		assert.True(t, IsAuthError(err))
	})
}

func TestErrorTaxonomy(t *testing.T) {
	newStatusServer := func(status int, body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, body, status)
		}))
	}

	t.Run("Should classify 404 as NotFound", func(t *testing.T) {
		server := newStatusServer(http.StatusNotFound, `{"error":"no such asset"}`)
		defer server.Close()

		client := NewClient(server.URL, "u", "p")
		_, err := client.GetAsset(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.False(t, IsPreconditionFailed(err))
	})

	t.Run("Should classify 412 as PreconditionFailed", func(t *testing.T) {
		server := newStatusServer(http.StatusPreconditionFailed, `{"error":"etag mismatch"}`)
		defer server.Close()

		client := NewClient(server.URL, "u", "p")
		err := client.DeleteAsset(context.Background(), "a1", "stale-etag")
		require.Error(t, err)
		assert.True(t, IsPreconditionFailed(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("Should carry status and body on other HTTP errors", func(t *testing.T) {
		server := newStatusServer(http.StatusConflict, `{"error":"duplicate name"}`)
		defer server.Close()

		client := NewClient(server.URL, "u", "p")
		_, err := client.CreateAsset(context.Background(), &models.Asset{Name: "x"})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "duplicate name")
	})

	t.Run("Should send If-Match on patch and delete", func(t *testing.T) {
		var etags []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			etags = append(etags, r.Header.Get("If-Match"))
			fmt.Fprint(w, `{"_id":"a1","name":"x","t":16777218,"_etag":"v2"}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "u", "p")
		updated, err := client.UpdateAsset(context.Background(), "a1", "v1", map[string]any{"name": "y"})
		require.NoError(t, err)
		assert.Equal(t, "v2", updated.ETag)

		require.NoError(t, client.DeleteAsset(context.Background(), "a1", "v2"))
		assert.Equal(t, []string{"v1", "v2"}, etags)
	})
}

func TestAssetTypeDecoding(t *testing.T) {
	t.Run("Should accept numeric and string type codes", func(t *testing.T) {
		var numeric, quoted models.Asset
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"a","name":"n","t":33554435}`), &numeric))
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"a","name":"n","t":"33554435"}`), &quoted))
		assert.Equal(t, models.TypeTransmitter, numeric.Type)
		assert.Equal(t, models.TypeTransmitter, quoted.Type)
		assert.Equal(t, "Transmitter", quoted.Type.Label())
	})
}

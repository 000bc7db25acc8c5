package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store for exercising the manager in isolation
type memStore struct {
	mu        sync.Mutex
	records   []domain.Record
	failAfter int // reject inserts once this many succeeded; 0 disables
}

func (s *memStore) Insert(data any) (domain.Result[domain.Record], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAfter > 0 && len(s.records) >= s.failAfter {
		return domain.Failure[domain.Record](domain.StatusSizeLimitExceeded), nil
	}
	rec, ok := domain.ToRecord(data)
	if !ok {
		return domain.Failure[domain.Record](domain.StatusInvalidData), nil
	}
	rec[domain.IDField] = domain.GenerateID()
	s.records = append(s.records, rec)
	return domain.Success(rec), nil
}

func (s *memStore) FindAll() (domain.Result[[]domain.Record], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Success(domain.CloneRecords(s.records)), nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func arrayServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestManager_UnconfiguredFailsFast(t *testing.T) {
	m := New(&memStore{})

	assert.Equal(t, domain.StatusSyncFailed, m.Pull(context.Background()).Status)
	assert.Equal(t, domain.StatusSyncFailed, m.Push(context.Background()).Status)
	assert.Equal(t, "", m.Endpoint())
}

func TestManager_ConfigureValidatesEndpoint(t *testing.T) {
	m := New(&memStore{})

	assert.Error(t, m.Configure("not a url", nil))
	assert.Error(t, m.Configure("ftp://example.com/data", nil))
	assert.Error(t, m.Configure("/relative/path", nil))
	require.NoError(t, m.Configure("http://example.com/data", nil))
	assert.Equal(t, "http://example.com/data", m.Endpoint())
}

func TestManager_PullInsertsEveryItem(t *testing.T) {
	srv := arrayServer(t, `[{"name":"Alice"},{"name":"Bob"},{"name":"Charlie"}]`)
	store := &memStore{}
	m := New(store)
	require.NoError(t, m.Configure(srv.URL, nil))

	res := m.Pull(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, 3, res.Data)
	assert.Equal(t, 3, store.len())

	// Pulling again duplicates: there is no matching against existing records
	res = m.Pull(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, 6, store.len())
}

func TestManager_PullFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "not an array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"name":"Alice"}`)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `[{"name":`)
			},
		},
		{
			name: "non-object item",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `[1, 2]`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			m := New(&memStore{})
			require.NoError(t, m.Configure(srv.URL, nil))

			res := m.Pull(context.Background())
			assert.Equal(t, domain.StatusSyncFailed, res.Status)
			assert.Equal(t, 0, res.Data)
		})
	}
}

func TestManager_PullPartialApplication(t *testing.T) {
	srv := arrayServer(t, `[{"n":1},{"n":2},{"n":3},{"n":4}]`)
	store := &memStore{failAfter: 2}
	m := New(store)
	require.NoError(t, m.Configure(srv.URL, nil))

	res := m.Pull(context.Background())
	assert.Equal(t, domain.StatusSyncFailed, res.Status)
	// Inserts made before the failure are kept
	assert.Equal(t, 2, store.len())
}

func TestManager_PullUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m := New(&memStore{})
	require.NoError(t, m.Configure(url, nil))
	assert.Equal(t, domain.StatusSyncFailed, m.Pull(context.Background()).Status)
}

func TestManager_PushSendsWholeSet(t *testing.T) {
	var (
		gotMethod string
		gotBody   []map[string]any
		calls     int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotMethod = r.Method
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := &memStore{}
	for i := 0; i < 5; i++ {
		_, err := store.Insert(map[string]any{"n": i})
		require.NoError(t, err)
	}

	m := New(store)
	require.NoError(t, m.Configure(srv.URL, nil))

	res := m.Push(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, 5, res.Data)
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.MethodPut, gotMethod)
	require.Len(t, gotBody, 5)
	for _, rec := range gotBody {
		assert.Len(t, rec["id"], domain.IDLength)
	}
}

func TestManager_PushEmptySendsEmptyArray(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
	}))
	defer srv.Close()

	m := New(&memStore{}, WithPushMethod(http.MethodPost))
	require.NoError(t, m.Configure(srv.URL, nil))

	res := m.Push(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, 0, res.Data)
	assert.Equal(t, "[]", raw)
}

func TestManager_PushRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	m := New(&memStore{}, WithCollectionName("users"))
	require.NoError(t, m.Configure(srv.URL, nil))

	res := m.Push(context.Background())
	assert.Equal(t, domain.StatusSyncFailed, res.Status)
}

func TestManager_PushUsesContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	m := New(&memStore{})
	require.NoError(t, m.Configure(fmt.Sprintf("%s/records", srv.URL), nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, domain.StatusSyncFailed, m.Push(ctx).Status)
}

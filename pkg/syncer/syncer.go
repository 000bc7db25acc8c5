// Package syncer moves records between a collection and a remote HTTP
// endpoint. Pull ingests every remote item as a new record; push uploads the
// whole record set in one request. Neither direction retries.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/VictoriaMetrics/metrics"
)

// ErrNotConfigured is reported when pull or push run before Configure
var ErrNotConfigured = errors.New("sync endpoint not configured")

// Store is the part of a collection the sync manager relies on
type Store interface {
	Insert(data any) (domain.Result[domain.Record], error)
	FindAll() (domain.Result[[]domain.Record], error)
}

// Manager synchronizes one store with one remote endpoint
type Manager struct {
	store      Store
	client     *http.Client
	pushMethod string
	collection string

	mu       sync.RWMutex
	endpoint string
	logger   *slog.Logger
}

type Option func(*Manager)

// WithHTTPClient sets the client used for remote calls
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.client = client
	}
}

// WithPushMethod selects PUT (default) or POST for push
func WithPushMethod(method string) Option {
	return func(m *Manager) {
		m.pushMethod = method
	}
}

// WithCollectionName labels logs and metrics with the collection name
func WithCollectionName(name string) Option {
	return func(m *Manager) {
		m.collection = name
	}
}

// New creates an unconfigured manager bound to store
func New(store Store, options ...Option) *Manager {
	m := &Manager{
		store:      store,
		client:     &http.Client{Timeout: 30 * time.Second},
		pushMethod: http.MethodPut,
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Configure sets the remote endpoint and the logger used for sync
// operations. The endpoint must be an absolute http or https URL.
func (m *Manager) Configure(endpoint string, logger *slog.Logger) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid sync endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid sync endpoint %q: must be an http(s) URL", endpoint)
	}
	if logger == nil {
		logger = slog.Default()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.endpoint = endpoint
	m.logger = logger.With("collection", m.collection, "endpoint", endpoint)
	return nil
}

// Endpoint returns the configured endpoint, or "" when unconfigured
func (m *Manager) Endpoint() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.endpoint
}

func (m *Manager) config() (string, *slog.Logger) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.endpoint, m.logger
}

// Pull fetches a JSON array from the endpoint and inserts every item as a
// new record. Data is the number of records inserted. On failure, records
// inserted before the failing item stay in the collection.
func (m *Manager) Pull(ctx context.Context) domain.Result[int] {
	endpoint, logger := m.config()
	if endpoint == "" {
		return m.fail("pull", logger, ErrNotConfigured)
	}

	items, err := m.fetch(ctx, endpoint)
	if err != nil {
		return m.fail("pull", logger, err)
	}

	for i, item := range items {
		res, err := m.store.Insert(item)
		if err != nil {
			return m.fail("pull", logger, fmt.Errorf("insert item %d: %w", i, err))
		}
		if !res.OK() {
			return m.fail("pull", logger, fmt.Errorf("insert item %d: %s", i, res.Status.Message))
		}
	}

	logger.Info("Pulled records", "count", len(items))
	countSync(m.collection, "pull", domain.StatusSuccess)
	return domain.Success(len(items))
}

func (m *Manager) fetch(ctx context.Context, endpoint string) ([]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: unexpected status %s", resp.Status)
	}

	var items []any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return items, nil
}

// Push uploads every record of the store to the endpoint in a single
// request. Data is the number of records sent.
func (m *Manager) Push(ctx context.Context) domain.Result[int] {
	endpoint, logger := m.config()
	if endpoint == "" {
		return m.fail("push", logger, ErrNotConfigured)
	}

	all, err := m.store.FindAll()
	if err != nil {
		return m.fail("push", logger, fmt.Errorf("read records: %w", err))
	}
	if !all.OK() {
		return m.fail("push", logger, fmt.Errorf("read records: %s", all.Status.Message))
	}
	records := all.Data
	if records == nil {
		records = []domain.Record{}
	}

	body, err := json.Marshal(records)
	if err != nil {
		return m.fail("push", logger, fmt.Errorf("marshal records: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, m.pushMethod, endpoint, bytes.NewReader(body))
	if err != nil {
		return m.fail("push", logger, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return m.fail("push", logger, fmt.Errorf("send: %w", err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return m.fail("push", logger, fmt.Errorf("send: unexpected status %s", resp.Status))
	}

	logger.Info("Pushed records", "count", len(records))
	countSync(m.collection, "push", domain.StatusSuccess)
	return domain.Success(len(records))
}

func (m *Manager) fail(direction string, logger *slog.Logger, err error) domain.Result[int] {
	logger.Error("Sync failed", "direction", direction, "err", err)
	countSync(m.collection, direction, domain.StatusSyncFailed)
	return domain.Failure[int](domain.StatusSyncFailed)
}

func countSync(collection, direction string, status domain.Status) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`koradb_sync_total{collection=%q,direction=%q,code="%d"}`,
		collection, direction, status.Code)).Inc()
}

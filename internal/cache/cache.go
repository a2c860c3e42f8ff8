package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LerianStudio/lib-commons/commons/log"
	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/dgraph-io/ristretto/v2/z"
)

// Entry is a cached response
type Entry struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Response rebuilds a fresh *http.Response for req from the entry
func (e Entry) Response(req *http.Request) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	header.Set(cn.CacheStatusHeader, cn.CacheHit)

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode)),
		StatusCode:    e.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// Manager handles caching of GET responses
type Manager struct {
	cache  *ristretto.Cache[string, Entry]
	ttl    time.Duration
	logger log.Logger
}

// New creates a new cache manager storing entries for ttl
func New(ttl time.Duration, logger log.Logger) (*Manager, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, Entry]{
		NumCounters:            cn.CacheNumCounters,
		MaxCost:                cn.CacheMaxCost,
		BufferItems:            cn.CacheBufferItems,
		TtlTickerDurationInSec: cn.CacheTtlTickerDurationInSec,
	})
	if err != nil {
		return nil, err
	}

	return &Manager{
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Key derives the cache key of a request. Responses negotiated with a
// different Accept header are cached separately, and so are requests whose
// bodies differ. ok is false when the request has a body that cannot be
// read again through GetBody, in which case it must not be cached.
func Key(req *http.Request) (key string, ok bool) {
	key = req.Method + " " + req.URL.String() + " " + req.Header.Get(cn.HeaderAccept)

	if req.Body == nil || req.Body == http.NoBody {
		return key, true
	}

	if req.GetBody == nil {
		return "", false
	}

	body, err := req.GetBody()
	if err != nil {
		return "", false
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", false
	}

	if len(data) == 0 {
		return key, true
	}

	h1, h2 := z.KeyToHash(data)

	return fmt.Sprintf("%s %016x%016x", key, h1, h2), true
}

// Get retrieves a cached response entry by key
func (m *Manager) Get(key string) (Entry, bool) {
	entry, found := m.cache.Get(key)
	if !found {
		return Entry{}, false
	}

	m.logger.Debugf("Response cache hit for %s", key)

	return entry, true
}

// Store caches an entry with the manager TTL. The cost of an entry is its body size.
func (m *Manager) Store(key string, entry Entry) {
	if !m.cache.SetWithTTL(key, entry, int64(len(entry.Body))+1, m.ttl) {
		m.logger.Debugf("Response cache rejected entry for %s", key)
		return
	}

	// Make the entry visible to the next Get
	m.cache.Wait()

	m.logger.Debugf("Stored response for %s [ttl: %s]", key, m.ttl)
}

// Close stops the cache background goroutines
func (m *Manager) Close() {
	m.cache.Close()
}

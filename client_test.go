package wrapi_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	wrapi "github.com/LerianStudio/lib-wrapi-go"
	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	libErr "github.com/LerianStudio/lib-wrapi-go/error"
	"github.com/LerianStudio/lib-wrapi-go/model"
	"github.com/LerianStudio/lib-wrapi-go/request"
	"github.com/LerianStudio/lib-wrapi-go/test/helper"
	"github.com/LerianStudio/lib-wrapi-go/test/helper/testlogger"
	"github.com/LerianStudio/lib-wrapi-go/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

type getUser struct {
	request.NoBody
	ID string
}

func (r getUser) Endpoint() string { return "users/" + r.ID }

type updateUser struct {
	ID   string `json:"-"`
	Name string `json:"name"`
}

func (r updateUser) Endpoint() string { return "users/" + r.ID }
func (updateUser) Method() string     { return http.MethodPut }

type createUser struct {
	Name string `json:"name"`
}

func (createUser) Endpoint() string { return "users" }
func (createUser) Method() string   { return http.MethodPost }

type tracedUser struct {
	request.NoBody
	ID string
}

func (r tracedUser) Endpoint() string { return "users/" + r.ID }
func (tracedUser) Headers() http.Header {
	return http.Header{"X-Tenant": {"override"}}
}

type searchUsers struct {
	Term string `json:"term"`
}

func (searchUsers) Endpoint() string { return "users/search" }

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newClient(t *testing.T, baseURL string, opts ...wrapi.Option) (*wrapi.Client, *testlogger.TestLogger) {
	t.Helper()

	logger := testlogger.New()

	c, err := wrapi.New(baseURL, append([]wrapi.Option{wrapi.WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c, logger
}

// flaky answers the first failures requests with status, then 200 with body
func flaky(t *testing.T, failures int32, status int, body string) *helper.TestServer {
	t.Helper()

	var calls atomic.Int32

	return helper.NewTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if calls.Add(1) <= failures {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"code":"UNAVAILABLE"}`)

			return
		}

		_, _ = io.WriteString(w, body)
	}))
}

func TestCall_DecodesResponse(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusOK, `{"id":"7","name":"Ada"}`)
	c, _ := newClient(t, server.URL+"/v1/")

	got, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
	require.NoError(t, err)
	assert.Equal(t, user{ID: "7", Name: "Ada"}, got)

	last := server.LastRequest(t)
	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, "/v1/users/7", last.Path)
	assert.Equal(t, cn.ContentTypeJSON, last.Header.Get(cn.HeaderAccept))
	assert.Empty(t, last.Body)
}

func TestClient_DefaultHeadersDoNotOverrideRequestHeaders(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusOK, `{}`)
	c, _ := newClient(t, server.URL,
		wrapi.WithDefaultHeader("X-Tenant", "default"),
		wrapi.WithDefaultHeaders(map[string]string{"X-Api-Key": "secret"}),
	)

	_, err := wrapi.Call[user](context.Background(), c, getUser{ID: "1"})
	require.NoError(t, err)

	last := server.LastRequest(t)
	assert.Equal(t, "default", last.Header.Get("X-Tenant"))
	assert.Equal(t, "secret", last.Header.Get("X-Api-Key"))

	_, err = wrapi.Call[user](context.Background(), c, tracedUser{ID: "1"})
	require.NoError(t, err)

	last = server.LastRequest(t)
	assert.Equal(t, []string{"override"}, last.Header.Values("X-Tenant"))
	assert.Equal(t, "secret", last.Header.Get("X-Api-Key"))
}

func TestClient_RequestID(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusOK, `{}`)
	c, _ := newClient(t, server.URL, wrapi.WithRequestID())

	ctx := wrapi.ContextWithRequestID(context.Background(), "req-123")

	_, err := wrapi.Call[user](ctx, c, getUser{ID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "req-123", server.LastRequest(t).Header.Get(cn.RequestIDHeader))

	_, err = wrapi.Call[user](context.Background(), c, getUser{ID: "1"})
	require.NoError(t, err)

	generated := server.LastRequest(t).Header.Get(cn.RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.NotEqual(t, "req-123", generated)
}

func TestClient_NoRequestIDByDefault(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusOK, `{}`)
	c, _ := newClient(t, server.URL)

	_, err := wrapi.Call[user](context.Background(), c, getUser{ID: "1"})
	require.NoError(t, err)
	assert.Empty(t, server.LastRequest(t).Header.Get(cn.RequestIDHeader))
}

func TestClient_RetriesIdempotentRequests(t *testing.T) {
	server := flaky(t, 2, http.StatusServiceUnavailable, `{"id":"7","name":"Ada"}`)
	c, logger := newClient(t, server.URL, wrapi.WithRetry(3, time.Millisecond))

	got, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, 3, server.Count())
	assert.Equal(t, 2, logger.Count(testlogger.LevelWarn))
}

func TestClient_RetryReplaysBody(t *testing.T) {
	server := flaky(t, 1, http.StatusBadGateway, `{"id":"7","name":"Grace"}`)
	c, _ := newClient(t, server.URL, wrapi.WithRetry(2, time.Millisecond))

	got, err := wrapi.Call[user](context.Background(), c, updateUser{ID: "7", Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Name)

	reqs := server.Requests()
	require.Len(t, reqs, 2)

	for _, r := range reqs {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.JSONEq(t, `{"name":"Grace"}`, string(r.Body))
	}
}

func TestClient_RetryExhaustedReturnsLastResponse(t *testing.T) {
	server := flaky(t, 10, http.StatusTooManyRequests, `{}`)
	c, _ := newClient(t, server.URL, wrapi.WithRetry(3, time.Millisecond))

	_, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
	helper.AssertResponseError(t, err, http.StatusTooManyRequests, `{"code":"UNAVAILABLE"}`)
	assert.Equal(t, 3, server.Count())
}

func TestClient_DoesNotRetryPOST(t *testing.T) {
	server := flaky(t, 1, http.StatusServiceUnavailable, `{}`)
	c, _ := newClient(t, server.URL, wrapi.WithRetry(3, time.Millisecond))

	_, err := wrapi.Call[user](context.Background(), c, createUser{Name: "Ada"})
	helper.AssertResponseError(t, err, http.StatusServiceUnavailable, `{"code":"UNAVAILABLE"}`)
	assert.Equal(t, 1, server.Count())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	server := flaky(t, 1, http.StatusNotFound, `{}`)
	c, _ := newClient(t, server.URL, wrapi.WithRetry(3, time.Millisecond))

	_, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
	helper.AssertResponseError(t, err, http.StatusNotFound, `{"code":"UNAVAILABLE"}`)
	assert.Equal(t, 1, server.Count())
}

func TestClient_CachesSuccessfulGET(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusOK, `{"id":"7","name":"Ada"}`)
	c, _ := newClient(t, server.URL, wrapi.WithCache(time.Minute))

	for range 3 {
		got, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Name)
	}

	assert.Equal(t, 1, server.Count())

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL+"/users/7", nil)
	require.NoError(t, err)
	req.Header.Set(cn.HeaderAccept, cn.ContentTypeJSON)

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, cn.CacheHit, resp.Header.Get(cn.CacheStatusHeader))
	assert.Equal(t, 1, server.Count())
}

func TestClient_CacheSeparatesGETBodies(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusOK, `[]`)
	c, _ := newClient(t, server.URL, wrapi.WithCache(time.Minute))

	for _, term := range []string{"ada", "grace", "ada"} {
		_, err := wrapi.Call[[]user](context.Background(), c, searchUsers{Term: term})
		require.NoError(t, err)
	}

	require.Equal(t, 2, server.Count())

	reqs := server.Requests()
	assert.JSONEq(t, `{"term":"ada"}`, string(reqs[0].Body))
	assert.JSONEq(t, `{"term":"grace"}`, string(reqs[1].Body))
}

func TestClient_DoesNotCacheErrorsOrWrites(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusInternalServerError, `{}`)
	c, _ := newClient(t, server.URL, wrapi.WithCache(time.Minute))

	for range 2 {
		_, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
		require.Error(t, err)
	}

	assert.Equal(t, 2, server.Count())

	for range 2 {
		_, _ = wrapi.Call[user](context.Background(), c, createUser{Name: "Ada"})
	}

	assert.Equal(t, 4, server.Count())
}

func TestClient_Metrics(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusOK, `{}`)
	reg := prometheus.NewRegistry()
	c, _ := newClient(t, server.URL, wrapi.WithMetrics(reg))

	for range 2 {
		_, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
		require.NoError(t, err)
	}

	count, err := testutil.GatherAndCount(reg, "wrapi_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, "wrapi_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClient_TracingKeepsCallerClient(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusOK, `{"id":"7"}`)
	hc := &http.Client{Timeout: time.Second}
	c, _ := newClient(t, server.URL, wrapi.WithHTTPClient(hc), wrapi.WithTracing())

	got, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "7", got.ID)
	assert.Nil(t, hc.Transport)
}

func TestClient_RateLimit(t *testing.T) {
	server := helper.NewJSONServer(t, http.StatusOK, `{}`)
	c, _ := newClient(t, server.URL, wrapi.WithRateLimit(1000, 1))

	for range 3 {
		_, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, server.Count())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := wrapi.Call[user](ctx, c, getUser{ID: "7"})
	require.Error(t, err)
	assert.Equal(t, 3, server.Count())
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		opts    []wrapi.Option
	}{
		{name: "relative base URL", baseURL: "api.example.com"},
		{name: "unsupported scheme", baseURL: "ftp://api.example.com"},
		{name: "negative rate", baseURL: "https://api.example.com", opts: []wrapi.Option{wrapi.WithRateLimit(-1, 1)}},
		{name: "zero burst", baseURL: "https://api.example.com", opts: []wrapi.Option{wrapi.WithRateLimit(5, 0)}},
		{name: "negative cache TTL", baseURL: "https://api.example.com", opts: []wrapi.Option{wrapi.WithCache(-time.Second)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testlogger.New()

			c, err := wrapi.New(tt.baseURL, append(tt.opts, wrapi.WithLogger(logger))...)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, cn.ErrInvalidConfig)
			assert.Equal(t, 1, logger.Count(testlogger.LevelError))
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	server := flaky(t, 1, http.StatusServiceUnavailable, `{"id":"7"}`)
	logger := testlogger.New()

	c, err := wrapi.NewFromConfig(model.Config{
		BaseURL:          server.URL,
		RetryMaxAttempts: 2,
		DefaultHeaders:   map[string]string{"X-Api-Key": "secret"},
	}, wrapi.WithLogger(logger), wrapi.WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.Equal(t, server.URL, c.BaseURL())
	assert.Equal(t, logger, c.GetLogger())

	got, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "7", got.ID)
	assert.Equal(t, 2, server.Count())
	assert.Equal(t, "secret", server.LastRequest(t).Header.Get("X-Api-Key"))
}

func TestNewFromConfig_Invalid(t *testing.T) {
	logger := testlogger.New()

	_, err := wrapi.NewFromConfig(model.Config{BaseURL: "not a url"}, wrapi.WithLogger(logger))
	assert.ErrorIs(t, err, cn.ErrInvalidConfig)
	assert.True(t, logger.Contains(testlogger.LevelError, "Invalid wrapi configuration"))
}

func TestClient_CloseStopsCache(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, err := wrapi.New("https://api.example.com", wrapi.WithLogger(testlogger.New()), wrapi.WithCache(time.Minute))
	require.NoError(t, err)

	c.Close()
}

func TestClient_RetriesConnectionErrors(t *testing.T) {
	var calls atomic.Int32

	hc := mocks.NewHTTPClientMock(func(_ *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, mocks.ErrConnectionRefused
	})

	c, logger := newClient(t, "https://api.example.com", wrapi.WithHTTPClient(hc), wrapi.WithRetry(3, time.Millisecond))

	_, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cn.ErrClient)
	assert.True(t, libErr.IsConnectionError(err))
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, logger.Contains(testlogger.LevelWarn, "retry 1/3"))
}

func TestClient_DoesNotRetryPermanentTransportErrors(t *testing.T) {
	var calls atomic.Int32

	hc := mocks.NewHTTPClientMock(func(_ *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New(`unsupported protocol scheme "ftp"`)
	})

	c, _ := newClient(t, "https://api.example.com", wrapi.WithHTTPClient(hc), wrapi.WithRetry(3, time.Millisecond))

	_, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cn.ErrClient)
	assert.False(t, libErr.IsConnectionError(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ServesMockedStatus(t *testing.T) {
	c, _ := newClient(t, "https://api.example.com",
		wrapi.WithHTTPClient(mocks.HTTPClientWithStatusMock(http.StatusConflict, []byte(`{"code":"DUP"}`))),
	)

	_, err := wrapi.Call[user](context.Background(), c, createUser{Name: "Ada"})
	respErr := helper.AssertResponseError(t, err, http.StatusConflict, `{"code":"DUP"}`)
	assert.Equal(t, "DUP", respErr.Field("code").String())
}

func TestClient_TracingLeavesOtherDoersAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)

	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "https://api.example.com/users/7", req.URL.String())
		return mocks.NewHTTPResponse(http.StatusOK, []byte(`{"id":"7"}`)), nil
	})

	c, _ := newClient(t, "https://api.example.com", wrapi.WithHTTPClient(doer), wrapi.WithTracing())

	got, err := wrapi.Call[user](context.Background(), c, getUser{ID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "7", got.ID)
}

package faq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ashureev/faqbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAllBareList(t *testing.T) {
	srv := serve(t, http.StatusOK, `[{"category":"休暇","keywords":"有給,有休","answer":"有給休暇は..."}]`)

	data, err := NewClient(srv.Client(), srv.URL).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, data.FAQ, 1)
	assert.Equal(t, "休暇", data.FAQ[0].Category)
	assert.Equal(t, "有給,有休", data.FAQ[0].Keywords)
	assert.Empty(t, data.Employees)
}

func TestFetchAllObjectShape(t *testing.T) {
	srv := serve(t, http.StatusOK, `{
		"faq": [{"category":"給与","summary":"振込日","keywords":25,"answer":"毎月25日です"}],
		"employees": ["山田太郎", "鈴木一郎", null]
	}`)

	data, err := NewClient(srv.Client(), srv.URL).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, data.FAQ, 1)
	assert.Equal(t, "25", data.FAQ[0].Keywords)
	assert.Equal(t, "振込日", data.FAQ[0].Summary)
	assert.Equal(t, []string{"山田太郎", "鈴木一郎", ""}, data.Employees)
}

func TestFetchAllDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `[]`},
		{"malformed json", http.StatusOK, `{"faq": [`},
		{"scalar payload", http.StatusOK, `"oops"`},
		{"empty body", http.StatusOK, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)

			data, err := NewClient(srv.Client(), srv.URL).FetchAll(context.Background())
			require.ErrorIs(t, err, ErrUnavailable)
			assert.Empty(t, data.FAQ)
			assert.Empty(t, data.Employees)
		})
	}
}

func TestFetchAllTransportError(t *testing.T) {
	srv := serve(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()

	data, err := NewClient(nil, url).FetchAll(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, data.Empty())
}

func TestFetchAllIsRepeatable(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"faq":[{"category":"a","keywords":"x","answer":"y"}],"employees":["e"]}`)
	c := NewClient(srv.Client(), srv.URL)

	first, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	second, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type countingSource struct {
	calls atomic.Int32
	data  domain.Dataset
	err   error
}

func (s *countingSource) FetchAll(_ context.Context) (domain.Dataset, error) {
	s.calls.Add(1)
	return s.data, s.err
}

func TestCachedSourceMemoizesSuccess(t *testing.T) {
	src := &countingSource{data: domain.Dataset{FAQ: []domain.FaqRecord{{Keywords: "a"}}}}
	c := NewCachedSource(src, time.Minute)

	for i := 0; i < 3; i++ {
		data, err := c.FetchAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, data.FAQ, 1)
	}
	assert.Equal(t, int32(1), src.calls.Load())

	c.Invalidate()
	_, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCachedSourceSkipsFailures(t *testing.T) {
	src := &countingSource{err: ErrUnavailable}
	c := NewCachedSource(src, time.Minute)

	_, err := c.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = c.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCachedSourceDisabled(t *testing.T) {
	src := &countingSource{data: domain.Dataset{FAQ: []domain.FaqRecord{{Keywords: "a"}}}}
	c := NewCachedSource(src, 0)

	_, _ = c.FetchAll(context.Background())
	_, _ = c.FetchAll(context.Background())
	assert.Equal(t, int32(2), src.calls.Load())
}

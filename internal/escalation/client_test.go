package escalation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPostsEntry(t *testing.T) {
	var calls atomic.Int32
	var got Entry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "")
	err := c.Log(context.Background(), Entry{
		Message:  "担当者へ連絡 (閲覧中カテゴリ: 休暇)",
		Reply:    "承知いたしました。",
		UserName: "山田太郎",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, DefaultType, got.Type)
	assert.Equal(t, "山田太郎", got.UserName)
	assert.Equal(t, "承知いたしました。", got.Reply)
}

func TestLogWireFieldNames(t *testing.T) {
	raw, err := json.Marshal(Entry{Message: "m", Reply: "r", Type: "t", UserName: "u"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"m","reply":"r","type":"t","userName":"u"}`, string(raw))
}

func TestLogKeepsExplicitType(t *testing.T) {
	var got Entry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.Client(), srv.URL, "escalation").Log(context.Background(), Entry{Type: "feedback"}))
	assert.Equal(t, "feedback", got.Type)
}

func TestLogIgnoresResponseStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.Client(), srv.URL, "").Log(context.Background(), Entry{}))
}

func TestLogReportsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	assert.Error(t, NewClient(nil, url, "").Log(context.Background(), Entry{}))
}

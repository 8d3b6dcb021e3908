//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashureev/faqbot/internal/chat"
	"github.com/stretchr/testify/assert"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFor(nil))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(&chat.ValidationError{Field: "name"}))
	assert.Equal(t, http.StatusConflict, statusFor(chat.ErrInvalidTransition))
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("wrapped: %w", chat.ErrDataUnavailable)))
	assert.Equal(t, http.StatusBadRequest, statusFor(chat.ErrUnknownAction))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

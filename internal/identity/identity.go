// Package identity provides anonymous per-device chat session identity.
package identity

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DeviceCookieName      = "faqbot_device_id"
	SessionHeaderName     = "X-FAQBot-Session-ID"
	DefaultSessionIDValue = "default"
	deviceCookieMaxAge    = 30 * 24 * time.Hour
)

type contextKey int

const (
	deviceIDKey contextKey = iota
	sessionIDKey
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// DeviceIDFromContext extracts the device ID from the request context.
func DeviceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(deviceIDKey).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext extracts the tab session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return DefaultSessionIDValue
}

// SessionKey identifies one chat session: a browser tab on a device.
func SessionKey(ctx context.Context) string {
	return DeviceIDFromContext(ctx) + ":" + SessionIDFromContext(ctx)
}

// WithIdentity returns a context carrying the given device and session IDs.
func WithIdentity(ctx context.Context, deviceID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, deviceIDKey, deviceID)
	return context.WithValue(ctx, sessionIDKey, sanitizeSessionID(sessionID))
}

func isValidDeviceID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

func sanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !sessionIDPattern.MatchString(id) {
		return DefaultSessionIDValue
	}
	return id
}

func getOrCreateDeviceID(w http.ResponseWriter, r *http.Request, isDev bool) string {
	id := ""
	if c, err := r.Cookie(DeviceCookieName); err == nil && isValidDeviceID(c.Value) {
		id = c.Value
	} else {
		id = uuid.NewString()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     DeviceCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(deviceCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(deviceCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
	return id
}

func sessionIDFromRequest(r *http.Request) string {
	sid := r.Header.Get(SessionHeaderName)
	if sid == "" {
		sid = r.URL.Query().Get("session_id")
	}
	return sanitizeSessionID(sid)
}

// Middleware injects the anonymous device ID and per-tab session ID.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := getOrCreateDeviceID(w, r, isDev)
			ctx := WithIdentity(r.Context(), deviceID, sessionIDFromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IPFromRequest returns a normalized remote IP for rate limiting.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

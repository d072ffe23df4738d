package mw

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// AccessKeyHeader carries the namespace key for every data route.
const AccessKeyHeader = "X-Access-Key"

type ctxKey int

const accessKeyCtx ctxKey = iota

// AccessKey returns the access key stored by RequireAccessKey, or ""
// when the middleware did not run.
func AccessKey(ctx context.Context) string {
	v, _ := ctx.Value(accessKeyCtx).(string)
	return v
}

// RequireAccessKey rejects requests without an X-Access-Key header and
// stashes the key in the request context for handlers.
func RequireAccessKey() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(AccessKeyHeader))
			if key == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "missing " + AccessKeyHeader + " header",
				})
				return
			}
			ctx := context.WithValue(r.Context(), accessKeyCtx, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"

	"github.com/danielhkuo/ledger-ballot/auth"
)

// Admin authentication headers
const (
	HeaderAdminID  = "X-Admin-ID"
	HeaderAdminKey = "X-Admin-Key"
)

type adminIDKey struct{}

// RequireAdmin rejects requests without a valid admin key and stores the
// admin id in the request context
func RequireAdmin(salt string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := r.Header.Get(HeaderAdminID)
		adminKey := r.Header.Get(HeaderAdminKey)
		if adminID == "" || adminKey == "" {
			ErrorResponse(w, http.StatusUnauthorized, "X-Admin-ID and X-Admin-Key headers required")
			return
		}

		if err := auth.ValidateAdminKey(adminID, adminKey, salt); err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
			return
		}

		ctx := context.WithValue(r.Context(), adminIDKey{}, adminID)
		next(w, r.WithContext(ctx))
	}
}

// AdminID returns the authenticated admin id set by RequireAdmin
func AdminID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDKey{}).(string)
	return id, ok && id != ""
}

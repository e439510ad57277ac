// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Request Logging

WithLogging logs the start and completion of every request with slog:

	mux.HandleFunc("POST /cast-vote", middleware.WithLogging(h.CastVote))

Completion lines include the response status and duration in milliseconds.

# Admin Authentication

RequireAdmin checks the X-Admin-ID and X-Admin-Key headers. The key is the
HMAC issued at login; on success the admin id is available to the handler:

	adminID, _ := middleware.AdminID(r.Context())

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, resp)
	middleware.ErrorResponse(w, http.StatusBadRequest, "voterId is required")
	middleware.WriteError(w, r, err)

WriteError maps apperr kinds to status codes and passes ledger result codes
through in the resultCode field. Internal errors are logged and reported as
"Internal Server Error".

# Validation

ParseAndValidate decodes a body and applies its validate struct tags
(go-playground/validator). Messages name fields by their JSON keys.

# CORS

CORS wraps the mux with rs/cors, reflecting the request origin and allowing
the admin authentication headers.

# Client IP

GetClientIP checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware

// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/keepskip/internal/logging"
)

type contextKey string

// RequestIDKey is the context key holding the request ID.
const RequestIDKey contextKey = "request_id"

// Header names for request tracing.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// maxInboundIDLength caps IDs accepted from upstream proxies.
const maxInboundIDLength = 128

// RequestID assigns every request an ID, reusing X-Request-ID from an
// upstream proxy when present, and echoes it in the response. The request
// and correlation IDs are stored in the logging context so every log line
// written while serving the request carries them.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > maxInboundIDLength {
			requestID = uuid.New().String()
		}

		w.Header().Set(HeaderRequestID, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)

		if correlationID := r.Header.Get(HeaderCorrelationID); correlationID != "" && len(correlationID) <= maxInboundIDLength {
			ctx = logging.ContextWithCorrelationID(ctx, correlationID)
		} else {
			ctx = logging.ContextWithNewCorrelationID(ctx)
		}
		w.Header().Set(HeaderCorrelationID, logging.CorrelationIDFromContext(ctx))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

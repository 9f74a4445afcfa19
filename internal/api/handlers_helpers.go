// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/keepskip/internal/logging"
	"github.com/tomtom215/keepskip/internal/models"
	"github.com/tomtom215/keepskip/internal/validation"
)

// Response status values of the APIResponse envelope.
const (
	statusSuccess = "success"
	statusPartial = "partial"
	statusError   = "error"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	if w.Header().Get("Cache-Control") == "" {
		w.Header().Set("Cache-Control", "no-store")
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, data interface{}, meta models.Metadata) {
	meta.Timestamp = time.Now()
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   statusSuccess,
		Data:     data,
		Metadata: meta,
	})
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondAPIError(w, status, &models.APIError{Code: code, Message: message}, err)
}

// respondAPIError sends a prepared API error. A non-nil err is logged.
func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(apiErr.Code)).
			Int("status", status).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: statusError,
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: apiErr,
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	return validationErr.ToAPIError()
}

// decodeJSONBody decodes a size-limited JSON body into dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", maxBytes)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseLimit reads the limit query parameter. A missing parameter yields
// def; a present one must be an integer within the ListRequest bounds.
// The result is capped at maxAllowed when maxAllowed > 0.
func parseLimit(r *http.Request, def, maxAllowed int) (int, *models.APIError) {
	raw := r.URL.Query().Get("limit")
	limit := def
	if raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, validation.NewFieldError("limit", "number", raw, "limit must be an integer").ToAPIError()
		}
		req := ListRequest{Limit: n}
		if apiErr := validateRequest(&req); apiErr != nil {
			return 0, apiErr
		}
		limit = req.Limit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if maxAllowed > 0 && limit > maxAllowed {
		limit = maxAllowed
	}
	return limit, nil
}

// setLastModified advertises when a snapshot was read from disk.
func setLastModified(w http.ResponseWriter, t time.Time) {
	if !t.IsZero() {
		w.Header().Set("Last-Modified", t.UTC().Format(http.TimeFormat))
	}
}

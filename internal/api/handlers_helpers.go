// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sheetlens/internal/auth"
	"github.com/tomtom215/sheetlens/internal/models"
	"github.com/tomtom215/sheetlens/internal/validation"
)

// maxBodyBytes caps request bodies. Chart and dashboard payloads are small.
const maxBodyBytes = 1 << 20

// errEmptyBody is returned by readJSON for a request without a body.
var errEmptyBody = errors.New("empty request body")

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errEmptyBody
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// decodeAndValidate reads the JSON body into dst and validates it, writing
// the 400 response itself on failure. Optional bodies may be absent.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) bool {
	err := readJSON(w, r, dst)
	switch {
	case errors.Is(err, errEmptyBody) && optional:
	case err != nil:
		NewResponseWriter(w, r).BadRequest(msgInvalidJSON)
		return false
	}
	return validateRequest(w, r, dst)
}

func validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if ve := validation.ValidateStruct(v); ve != nil {
		NewResponseWriter(w, r).ValidationError(ve)
		return false
	}
	return true
}

// principal returns the authenticated user. Routes using it sit behind the
// auth middleware; a missing principal is a wiring bug answered with 401.
func principal(w http.ResponseWriter, r *http.Request) (*models.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("Access denied. No token provided.")
		return nil, false
	}
	return p, true
}

// getIntParam reads an integer query parameter, returning defaultValue when
// it is absent or malformed.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// sanitizeLogValue strips control characters from user input before it is
// logged.
func sanitizeLogValue(s string) string {
	const maxLen = 128
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

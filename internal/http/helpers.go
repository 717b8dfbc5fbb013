package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Client facing messages. Error details stay in the server logs.
const (
	msgInvalidYearMonth = "Invalid year or month."
	msgInvalidMonth     = "Invalid month."
	msgInvalidYear      = "Invalid year."
	msgFetchFailed      = "Error fetching JSON data."
	msgNotFound         = "Not found."
	msgMethodNotAllowed = "Method not allowed."
	msgRateLimited      = "Rate limit exceeded. Please try again later."
)

var errEmptyParam = errors.New("empty parameter")

type errorResponse struct {
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"message":"` + msgFetchFailed + `"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// parseIntParam parses a decimal integer, rejecting trailing garbage such as "3abc".
func parseIntParam(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyParam
	}
	return strconv.Atoi(s)
}

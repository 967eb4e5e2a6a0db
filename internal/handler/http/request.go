package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/pagination"
)

const maxBodyBytes = 1 << 20

// requestingUser returns the authenticated caller or writes a 401.
func requestingUser(w http.ResponseWriter, r *http.Request) (user.RequestingUser, bool) {
	caller, ok := middleware.RequestingUserFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrUnauthenticated)
		return user.RequestingUser{}, false
	}
	return caller, true
}

// decodeJSON reads the request body into dst or writes a 400. An empty body
// leaves dst untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, allowEmpty bool) bool {
	if allowEmpty && r.ContentLength == 0 {
		return true
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", map[string]string{"body": err.Error()})
		return false
	}
	return true
}

// getStringQueryParam returns nil when the parameter is absent or empty.
func getStringQueryParam(r *http.Request, key string) *string {
	if val := r.URL.Query().Get(key); val != "" {
		return &val
	}
	return nil
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getOptionalIntQueryParam returns nil when absent; a malformed value is
// reported so validation rejects it.
func getOptionalIntQueryParam(r *http.Request, key string) (*int, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, true
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return nil, false
	}
	return &intVal, true
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

func metaFrom(p pagination.Pagination) *response.Meta {
	return &response.Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: p.Total,
		TotalPages: p.TotalPages,
	}
}

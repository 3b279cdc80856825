package http

import (
	"net/http"
	"strconv"
)

// optionalQuery returns the named query parameter, or nil when absent or
// empty.
func optionalQuery(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

// limitQuery parses the "limit" query parameter; zero means the caller
// did not ask for a specific page size.
func limitQuery(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0
	}

	limit, err := strconv.Atoi(v)
	if err != nil || limit < 0 {
		return 0
	}

	return limit
}

func boolQuery(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

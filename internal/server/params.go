package server

import (
	"net/http"
	"strconv"
	"strings"
)

// parseIntQuery reads an integer query parameter. ok is false when the
// value is present but not an integer; absent values yield def.
func parseIntQuery(r *http.Request, name string, def int) (value int, ok bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// pathSuffix strips prefix from the request path and returns the rest.
func pathSuffix(r *http.Request, prefix string) string {
	return strings.TrimPrefix(r.URL.Path, prefix)
}

// parseID parses a path segment as an entity id.
func parseID(segment string) (int64, bool) {
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

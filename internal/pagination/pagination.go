// Package pagination holds the shared page/size/sort plumbing used by
// the list endpoints.
package pagination

import (
	"strings"
)

// FieldSet is the set of sortable attribute names for one entity.
// Matching is case-sensitive.
type FieldSet map[string]struct{}

func newFieldSet(fields ...string) FieldSet {
	fs := make(FieldSet, len(fields))
	for _, f := range fields {
		fs[f] = struct{}{}
	}
	return fs
}

func (fs FieldSet) Has(field string) bool {
	_, ok := fs[field]
	return ok
}

var (
	BookFields = newFieldSet(
		"id", "isbn", "title", "price", "publisher", "summary",
		"publication_date", "authors", "categories", "created_at", "updated_at",
	)
	UserFields = newFieldSet(
		"id", "email", "name", "phone", "address", "role", "status",
		"created_at", "updated_at",
	)
	RatingFields = newFieldSet(
		"id", "user_id", "book_id", "score", "created_at", "updated_at",
	)
	CommentFields = newFieldSet(
		"id", "user_id", "book_id", "content", "created_at", "updated_at",
	)
)

// ParseSort splits a "field,direction" value on the first comma. A
// missing comma yields the whole value as field and an empty direction.
func ParseSort(sort string) (field, direction string) {
	field, direction, _ = strings.Cut(sort, ",")
	return field, direction
}

// IsDesc reports whether the direction means descending. Anything
// other than DESC (case-insensitive) sorts ascending.
func IsDesc(direction string) bool {
	return strings.EqualFold(direction, "DESC")
}

// ParseStrictSort parses a "field,ASC|DESC" value, rejecting unknown
// fields and garbled directions.
func ParseStrictSort(sort string, fields FieldSet) (field string, desc bool, ok bool) {
	field, direction := ParseSort(sort)
	if !fields.Has(field) {
		return "", false, false
	}
	switch strings.ToUpper(direction) {
	case "ASC":
		return field, false, true
	case "DESC":
		return field, true, true
	default:
		return "", false, false
	}
}

// Offset converts a one-based page into a row offset.
func Offset(page, size int) int {
	return (page - 1) * size
}

// TotalPages is ceil(total/size).
func TotalPages(total int64, size int) int64 {
	if size <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}

// Envelope is the public listing response body. Callers append echoed
// filters before encoding.
func Envelope(content any, page, size int, total int64, sort string) map[string]any {
	return map[string]any{
		"content":       content,
		"page":          page,
		"size":          size,
		"totalElements": total,
		"totalPages":    TotalPages(total, size),
		"sort":          sort,
	}
}

// ItemsEnvelope is the admin listing response body.
func ItemsEnvelope(items any, page, size int, total int64) map[string]any {
	return map[string]any{
		"items": items,
		"page":  page,
		"size":  size,
		"total": total,
	}
}

// Package repository defines error types and scan helpers that are reused
// across multiple repositories. The sentinel values allow handlers to
// distinguish between failure scenarios: ErrConflict signals a uniqueness
// or dependent-record violation and maps to HTTP 409/400, while missing
// rows surface as sql.ErrNoRows and map to HTTP 404.
package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// ErrEmailExists is returned when a user insert collides on the email
// unique index.
var ErrEmailExists = errors.New("email already registered")

// ErrUsernameExists is returned when a user insert collides on the
// username unique index.
var ErrUsernameExists = errors.New("username already taken")

// ErrConflict is returned when an insert or update cannot proceed because
// of conflicting state, such as creating a duplicate project setting key or
// pinning the same test case twice into a release.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}

// joinTags serializes a tag list into the comma separated form stored in
// the test_cases.tags column.
func joinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}

// splitTags parses the stored comma separated form back into a list,
// dropping empty entries.
func splitTags(s string) []string {
	out := []string{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

package handlers

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestValidPassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Str0ng!pass", true},
		{"Aa1!Aa1!", true},
		{"short1!A", true},
		{"Sh0rt!", false},
		{"nocapital1!", false},
		{"NoDigits!!", false},
		{"NoSpecial12", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := validPassword(tc.password); got != tc.want {
			t.Fatalf("validPassword(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	if !isUniqueViolation(dup) {
		t.Fatalf("expected unique violation for code 23505")
	}
	if !isUniqueViolation(fmt.Errorf("insert user: %w", dup)) {
		t.Fatalf("expected unique violation through wrapping")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation is not a duplicate")
	}
	if isUniqueViolation(pgx.ErrNoRows) {
		t.Fatalf("ErrNoRows is not a duplicate")
	}
}

func TestParseNoteID(t *testing.T) {
	id, ok := ParseNoteID("9b2d8f0a-1c34-4e56-8a7b-0d9e8f7a6b5c")
	if !ok || id != "9b2d8f0a-1c34-4e56-8a7b-0d9e8f7a6b5c" {
		t.Fatalf("expected valid uuid, got %q ok=%v", id, ok)
	}
	if id, ok := ParseNoteID("9B2D8F0A-1C34-4E56-8A7B-0D9E8F7A6B5C"); !ok || id != "9b2d8f0a-1c34-4e56-8a7b-0d9e8f7a6b5c" {
		t.Fatalf("uppercase uuid should normalize, got %q ok=%v", id, ok)
	}
	for _, bad := range []string{"", "42", "not-a-uuid", "9b2d8f0a-1c34-4e56-8a7b", "tags"} {
		if _, ok := ParseNoteID(bad); ok {
			t.Fatalf("expected rejection of %q", bad)
		}
	}
}

package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows must map to not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatal("arbitrary errors must not map to not found")
	}
}

func TestNullableString(t *testing.T) {
	if nullableString("  ") != nil {
		t.Fatal("blank string must map to nil")
	}
	got := nullableString(" 2025-10-07 ")
	if got == nil || *got != "2025-10-07" {
		t.Fatalf("expected trimmed value, got=%v", got)
	}
}

func TestNullableInt64(t *testing.T) {
	if nullableInt64(0) != nil {
		t.Fatal("zero must map to nil")
	}
	got := nullableInt64(748123)
	if got == nil || *got != 748123 {
		t.Fatalf("expected value, got=%v", got)
	}
}

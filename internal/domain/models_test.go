package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNullableString(t *testing.T) {
	if NullableString("") != nil {
		t.Error("Expected nil for empty string")
	}
	s := NullableString("desc")
	if s == nil || *s != "desc" {
		t.Errorf("Expected pointer to %q, got %v", "desc", s)
	}
}

func TestStringValue(t *testing.T) {
	if got := StringValue(nil); got != "" {
		t.Errorf("StringValue(nil) = %q, want empty", got)
	}
	v := "x"
	if got := StringValue(&v); got != "x" {
		t.Errorf("StringValue(&x) = %q, want x", got)
	}
}

func TestValidationError_Is(t *testing.T) {
	err := NewValidationError("Name and author are required")
	if !errors.Is(err, ErrValidation) {
		t.Error("Expected validation error to match ErrValidation")
	}

	wrapped := fmt.Errorf("create track: %w", err)
	if !errors.Is(wrapped, ErrValidation) {
		t.Error("Expected wrapped validation error to match ErrValidation")
	}

	var ve *ValidationError
	if !errors.As(wrapped, &ve) || ve.Message != "Name and author are required" {
		t.Errorf("errors.As did not recover the message, got %v", ve)
	}

	if errors.Is(ErrNotFound, ErrValidation) {
		t.Error("ErrNotFound must not match ErrValidation")
	}
}

func TestAccount_PasswordNotSerialized(t *testing.T) {
	data, err := json.Marshal(Account{ID: 1, Username: "bob", Password: "hash"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "hash") {
		t.Errorf("Password leaked into JSON: %s", data)
	}
}

func TestPlaylistSummary_FlattensJSON(t *testing.T) {
	owner := int64(7)
	s := PlaylistSummary{
		Playlist:  Playlist{ID: 3, Name: "Road Trip", UserID: &owner},
		SongCount: 2,
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"id", "name", "description", "user_id", "created_at", "song_count"} {
		if _, ok := m[key]; !ok {
			t.Errorf("Expected top-level key %q in %s", key, data)
		}
	}
	if m["song_count"].(float64) != 2 {
		t.Errorf("Expected song_count 2, got %v", m["song_count"])
	}
}

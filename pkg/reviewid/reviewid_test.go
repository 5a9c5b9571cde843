package reviewid

import (
	"strings"
	"testing"
)

func TestNewDeterministic(t *testing.T) {
	a, err := New("yandex", "Ivan", "2025-04-02", "персонал дружелюбный")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b, err := New("yandex", "Ivan", "2025-04-02", "персонал дружелюбный")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a != b {
		t.Errorf("same inputs produced different IDs: %s != %s", a, b)
	}
	if !strings.HasPrefix(a, "yandex:") {
		t.Errorf("New() = %q, want yandex: prefix", a)
	}
	if len(a) != len("yandex:")+DigestLen {
		t.Errorf("New() length = %d, want %d", len(a), len("yandex:")+DigestLen)
	}
}

func TestNewDistinguishesFields(t *testing.T) {
	base, _ := New("booking", "Anna", "2025-01-01", "nice room")
	variants := []struct {
		name                        string
		source, author, date, text string
	}{
		{"different source", "yandex", "Anna", "2025-01-01", "nice room"},
		{"different author", "booking", "Olga", "2025-01-01", "nice room"},
		{"different date", "booking", "Anna", "2025-01-02", "nice room"},
		{"different text", "booking", "Anna", "2025-01-01", "bad room"},
	}
	for _, tt := range variants {
		t.Run(tt.name, func(t *testing.T) {
			id, err := New(tt.source, tt.author, tt.date, tt.text)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if id == base {
				t.Errorf("variant %q collided with base ID %s", tt.name, base)
			}
		})
	}
}

func TestNewNormalizesSourceCase(t *testing.T) {
	a, _ := New("Booking", "Anna", "2025-01-01", "nice")
	b, _ := New(" booking ", "Anna", "2025-01-01", "nice")
	if a != b {
		t.Errorf("source case/space should not change identity: %s != %s", a, b)
	}
}

func TestNewEmptySource(t *testing.T) {
	if _, err := New("  ", "Anna", "2025-01-01", "nice"); err != ErrEmptySource {
		t.Errorf("New with blank source: err = %v, want ErrEmptySource", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantSource string
		wantErr    bool
	}{
		{"valid", "yandex:0123456789abcdef", "yandex", false},
		{"valid other source", "trip_com:aaaaaaaaaaaaaaaa", "trip_com", false},
		{"missing colon", "yandex0123456789abcdef", "", true},
		{"empty source", ":0123456789abcdef", "", true},
		{"short digest", "yandex:0123", "", true},
		{"long digest", "yandex:0123456789abcdef00", "", true},
		{"uppercase hex", "yandex:0123456789ABCDEF", "", true},
		{"non-hex digest", "yandex:0123456789abcdeg", "", true},
		{"empty string", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rid, err := Parse(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got nil", tt.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.id, err)
			}
			if rid.Source != tt.wantSource {
				t.Errorf("Parse(%q).Source = %q, want %q", tt.id, rid.Source, tt.wantSource)
			}
			if rid.Raw != tt.id {
				t.Errorf("Parse(%q).Raw = %q, want %q", tt.id, rid.Raw, tt.id)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	id, err := New("ostrovok", "гость", "2024-12-31", "всё отлично")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rid, err := Parse(id)
	if err != nil {
		t.Fatalf("Parse(New()) unexpected error: %v", err)
	}
	if rid.Source != "ostrovok" {
		t.Errorf("Parse(New()).Source = %q, want ostrovok", rid.Source)
	}
	if rid.String() != id {
		t.Errorf("String() = %q, want %q", rid.String(), id)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("google:00ff00ff00ff00ff") {
		t.Error("IsValid rejected a well-formed ID")
	}
	if IsValid("google:xyz") {
		t.Error("IsValid accepted a malformed ID")
	}
}

func TestSourceFromID(t *testing.T) {
	if got := SourceFromID("2gis:0123456789abcdef"); got != "2gis" {
		t.Errorf("SourceFromID = %q, want 2gis", got)
	}
	if got := SourceFromID("nonsense"); got != "" {
		t.Errorf("SourceFromID on malformed input = %q, want empty", got)
	}
}

func BenchmarkNew(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = New("yandex", "Ivan", "2025-04-02", "персонал дружелюбный, но шумно")
	}
}

func BenchmarkParse(b *testing.B) {
	id := "yandex:0123456789abcdef"
	for i := 0; i < b.N; i++ {
		_, _ = Parse(id)
	}
}

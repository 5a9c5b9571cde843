package ingest

import (
	"strings"
	"testing"
	"time"

	gperrors "github.com/otherjamesbrown/guestpulse/pkg/errors"
	"github.com/otherjamesbrown/guestpulse/pkg/reviewid"
)

func fixedReader(t *testing.T) *Reader {
	t.Helper()
	now, err := time.Parse("2006-01-02", "2025-04-10")
	if err != nil {
		t.Fatal(err)
	}
	return &Reader{Now: func() time.Time { return now }}
}

func TestReadCSVRussianHeaders(t *testing.T) {
	csvData := strings.Join([]string{
		"Дата,Рейтинг,Источник,Автор,Код языка,Текст отзыва,Наличие ответа",
		"2025-04-02,9,Яндекс,Иван,ru,Отличный отель,Да",
		"2025-04-03,\"4,5\",Booking.com,Anna,en,Great stay,нет",
	}, "\n")

	records, sum, failures, err := fixedReader(t).ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected row failures: %v", failures)
	}
	if sum.Records != 2 || sum.Rows != 2 {
		t.Fatalf("summary = %+v, want 2 rows, 2 records", sum)
	}

	r := records[0]
	if r.Input.Source != "yandex" {
		t.Errorf("Source = %q, want yandex", r.Input.Source)
	}
	if r.Input.Rating == nil || *r.Input.Rating != 9 {
		t.Errorf("Rating = %v, want 9", r.Input.Rating)
	}
	if r.Input.Language != "ru" {
		t.Errorf("Language = %q, want ru", r.Input.Language)
	}
	if !reviewid.IsValid(r.Input.ReviewID) || !strings.HasPrefix(r.Input.ReviewID, "yandex:") {
		t.Errorf("ReviewID = %q, want valid yandex:-prefixed ID", r.Input.ReviewID)
	}
	if r.HasResponse != "yes" {
		t.Errorf("HasResponse = %q, want yes", r.HasResponse)
	}

	// Comma decimal on a five-point source doubles to 9.
	if records[1].Input.Rating == nil || *records[1].Input.Rating != 9 {
		t.Errorf("row 2 Rating = %v, want 9", records[1].Input.Rating)
	}
	if records[1].HasResponse != "no" {
		t.Errorf("row 2 HasResponse = %q, want no", records[1].HasResponse)
	}
}

func TestReadCSVMissingRequiredColumn(t *testing.T) {
	csvData := "Рейтинг,Автор\n9,Иван\n"
	_, _, _, err := fixedReader(t).ReadCSV(strings.NewReader(csvData))
	if err == nil {
		t.Fatal("expected file-level error for missing columns")
	}
	if !gperrors.IsValidation(err) {
		t.Errorf("err = %v, want a validation error", err)
	}
}

func TestReadCSVSkipsEmptyAndFutureRows(t *testing.T) {
	csvData := strings.Join([]string{
		"date,rating,source,text",
		"2025-04-02,9,booking,Nice stay",
		"2025-04-03,8,booking,",              // blank text
		"2025-09-01,10,booking,From the future", // > 7 days ahead of 2025-04-10
		"2025-04-12,7,booking,Within grace window",
	}, "\n")

	records, sum, failures, err := fixedReader(t).ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if sum.EmptyText != 1 || sum.Future != 1 {
		t.Errorf("summary = %+v, want 1 empty-text and 1 future skip", sum)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].Input.CreatedAt != "2025-04-12" {
		t.Errorf("grace-window row CreatedAt = %q", records[1].Input.CreatedAt)
	}
}

func TestReadCSVUnparsableDatePassesThrough(t *testing.T) {
	csvData := "date,source,text\nвчера,booking,Nice stay\n"
	records, _, failures, err := fixedReader(t).ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(records) != 1 || records[0].Input.CreatedAt != "вчера" {
		t.Fatalf("raw date should pass through for the core to reject, got %+v", records)
	}
}

func TestReadCSVStableIDsAcrossRuns(t *testing.T) {
	csvData := "date,source,author,text\n2025-04-02,yandex,Иван,Отличный отель\n"
	first, _, _, err := fixedReader(t).ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatal(err)
	}
	second, _, _, err := fixedReader(t).ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Input.ReviewID != second[0].Input.ReviewID {
		t.Errorf("IDs differ across runs: %s != %s", first[0].Input.ReviewID, second[0].Input.ReviewID)
	}
}

func TestReadCSVDetectsLanguageWithoutColumn(t *testing.T) {
	csvData := "date,source,text\n2025-04-02,booking,Прекрасный отель\n"
	records, _, _, err := fixedReader(t).ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Input.Language != "ru" {
		t.Errorf("Language = %q, want ru from script heuristics", records[0].Input.Language)
	}
}

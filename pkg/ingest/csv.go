package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/errors"
	"github.com/otherjamesbrown/guestpulse/pkg/reviewid"
)

// Column synonyms as they appear in the platforms' RU and EN exports.
var colSynonyms = map[string]string{
	"дата": "date",
	"date": "date",

	"рейтинг": "rating",
	"rating":  "rating",
	"оценка":  "rating",

	"источник": "source",
	"source":   "source",

	"автор":        "author",
	"author":       "author",
	"пользователь": "author",

	"код языка": "lang",
	"язык":      "lang",
	"lang":      "lang",
	"language":  "lang",

	"текст отзыва": "text",
	"текст":        "text",
	"отзыв":        "text",
	"review":       "text",
	"comment":      "text",

	"наличие ответа": "has_response",
	"ответ":          "has_response",
	"has_response":   "has_response",
}

var hasResponseNorm = map[string]string{
	"да": "yes", "есть": "yes", "y": "yes", "yes": "yes", "true": "yes", "1": "yes",
	"нет": "no", "n": "no", "no": "no", "false": "no", "0": "no",
}

// Record is one ingested review row ready for analysis, plus the metadata
// the history store keeps alongside it.
type Record struct {
	Input       analyze.Input
	Author      string
	HasResponse string
	Line        int // 1-based line in the export, header included
}

// RowError is a soft per-row ingest failure. The rest of the file is
// unaffected.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Summary counts what happened to the file's rows.
type Summary struct {
	Rows      int // data rows seen
	Records   int // rows turned into Records
	EmptyText int // rows skipped for blank text
	Future    int // rows skipped as dated too far ahead
	Failed    int // rows with soft errors
}

// Reader ingests tabular review exports. Now is injectable for the
// future-dated-row filter.
type Reader struct {
	Now func() time.Time
}

func NewReader() *Reader {
	return &Reader{Now: time.Now}
}

// futureGrace tolerates timezone skew in export timestamps; anything dated
// further ahead is a data defect and gets skipped.
const futureGrace = 7 * 24 * time.Hour

// ReadCSV parses one export. A missing date, source, or text column is a
// file-level error; everything row-level is soft: failed rows come back in
// the error slice and the rest of the file proceeds.
func (r *Reader) ReadCSV(src io.Reader) ([]Record, Summary, []error, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, Summary{}, nil, fmt.Errorf("%w: reading header: %v", errors.ErrValidation, err)
	}

	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(cleanNBSP(h))
		if name, ok := colSynonyms[key]; ok {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	for _, need := range []string{"date", "source", "text"} {
		if _, ok := cols[need]; !ok {
			return nil, Summary{}, nil, fmt.Errorf("%w: export is missing a %q column", errors.ErrValidation, need)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return cleanNBSP(row[i])
	}

	now := r.Now()
	var (
		records  []Record
		failures []error
		sum      Summary
	)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			sum.Rows++
			sum.Failed++
			failures = append(failures, &RowError{Line: line, Err: err})
			continue
		}
		sum.Rows++

		text := cell(row, "text")
		if text == "" {
			sum.EmptyText++
			continue
		}

		rawDate := cell(row, "date")
		if d, err := analyze.ParseDate(rawDate); err == nil {
			if d.After(now.Add(futureGrace)) {
				sum.Future++
				continue
			}
			rawDate = d.Format("2006-01-02")
		}
		// An unparsable date stays raw: the analysis core reports it as a
		// per-review failure with the review attached.

		source := NormalizeSource(cell(row, "source"))
		author := cell(row, "author")
		lang := NormalizeLanguage(cell(row, "lang"), text)
		rating := NormalizeRating(cell(row, "rating"))

		id, err := reviewid.New(source, author, rawDate, strings.ToLower(analyze.Normalize(text)))
		if err != nil {
			sum.Failed++
			failures = append(failures, &RowError{Line: line, Err: err})
			continue
		}

		hr := strings.ToLower(cell(row, "has_response"))
		if norm, ok := hasResponseNorm[hr]; ok {
			hr = norm
		}

		records = append(records, Record{
			Input: analyze.Input{
				ReviewID:  id,
				Source:    source,
				CreatedAt: rawDate,
				Rating:    rating,
				Language:  lang,
				Text:      text,
			},
			Author:      author,
			HasResponse: hr,
			Line:        line,
		})
		sum.Records++
	}
	return records, sum, failures, nil
}

// ReadFile is ReadCSV over a file path.
func (r *Reader) ReadFile(path string) ([]Record, Summary, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Summary{}, nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()
	return r.ReadCSV(f)
}

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/impact"
)

// WriteKPICSV writes KPI rollup rows as CSV.
func WriteKPICSV(w io.Writer, rows []aggregate.KPIRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period_type", "period_key", "reviews", "avg_rating10", "positive", "neutral", "negative", "mixed"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			string(r.PeriodType), r.PeriodKey,
			strconv.Itoa(r.Reviews), optFloat(r.AvgRating10),
			strconv.Itoa(r.Positive), strconv.Itoa(r.Neutral),
			strconv.Itoa(r.Negative), strconv.Itoa(r.Mixed),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSourceCSV writes per-source weekly rows as CSV.
func WriteSourceCSV(w io.Writer, rows []aggregate.SourceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"week", "source", "reviews", "avg_rating10", "positive", "neutral", "negative", "mixed"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.WeekKey, r.Source,
			strconv.Itoa(r.Reviews), optFloat(r.AvgRating10),
			strconv.Itoa(r.Positive), strconv.Itoa(r.Neutral),
			strconv.Itoa(r.Negative), strconv.Itoa(r.Mixed),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAspectCSV writes aspect period rows as CSV.
func WriteAspectCSV(w io.Writer, rows []aggregate.AspectRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period_type", "period_key", "source_scope", "aspect_code", "mentions", "pos_mentions", "neg_mentions", "neu_mentions", "pos_share", "neg_share", "pos_weight", "neg_weight"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			string(r.PeriodType), r.PeriodKey, r.SourceScope, r.AspectCode,
			strconv.Itoa(r.Mentions),
			strconv.Itoa(r.PosMentions), strconv.Itoa(r.NegMentions), strconv.Itoa(r.NeuMentions),
			fmtF(r.PosShare), fmtF(r.NegShare), fmtF(r.PosWeight), fmtF(r.NegWeight),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePairCSV writes aspect pair rows as CSV.
func WritePairCSV(w io.Writer, rows []aggregate.PairRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period_type", "period_key", "pair_key", "category", "distinct_reviews", "example_quote"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			string(r.PeriodType), r.PeriodKey, r.PairKey, r.Category,
			strconv.Itoa(r.DistinctReviews), r.ExampleQuote,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteImpactCSV writes ranked impact rows as CSV.
func WriteImpactCSV(w io.Writer, rows []impact.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"aspect_code", "mentions", "frequency", "intensity_pos", "intensity_neg", "share_hi", "share_lo", "positive_impact_index", "negative_impact_index"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.AspectCode, strconv.Itoa(r.Mentions), fmtF(r.Frequency),
			fmtF(r.IntensityPos), fmtF(r.IntensityNeg),
			fmtF(r.ShareHi), fmtF(r.ShareLo),
			fmtF(r.PositiveIndex), fmtF(r.NegativeIndex),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtF(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *f)
}

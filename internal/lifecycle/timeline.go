package lifecycle

import (
	"sort"
	"strings"
	"time"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
)

// dateFormats are tried in order when parsing event date tokens. Source
// files come from several export tools and are not consistent about format.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a lenient event date token. Unparsable or empty tokens
// return the Unix epoch so that they sort before every real date instead of
// failing the pipeline. Callers that need to distinguish use the bool.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Unix(0, 0).UTC(), false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Unix(0, 0).UTC(), false
}

// Merge folds existing and incoming events into one canonical timeline:
// deduplicated on the literal (date, event) string pair, fill-forward per
// field within a duplicate group, sorted ascending by parsed date.
//
// The fill-forward rule: the first group member in concatenation order is
// the base entry; details and billingDate are then overwritten by any later
// member's non-empty value, independently per field. Entries missing date
// or event are dropped. The function is pure and idempotent:
// Merge(Merge(a, b), b) == Merge(a, b).
func Merge(existing, incoming []domain.ShopEvent) []domain.ShopEvent {
	merged := make(map[string]*domain.ShopEvent)
	order := make([]string, 0, len(existing)+len(incoming))

	fold := func(ev domain.ShopEvent) {
		if !ev.Valid() {
			return
		}
		key := ev.Date + "|" + ev.Name
		cur, ok := merged[key]
		if !ok {
			cp := ev
			merged[key] = &cp
			order = append(order, key)
			return
		}
		if ev.Details != "" {
			cur.Details = ev.Details
		}
		if ev.BillingDate != "" {
			cur.BillingDate = ev.BillingDate
		}
	}

	for _, ev := range existing {
		fold(ev)
	}
	for _, ev := range incoming {
		fold(ev)
	}

	out := make([]domain.ShopEvent, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}

	// Stable so that same-date entries keep concatenation order and the
	// result is reproducible for a given input ordering.
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := ParseDate(out[i].Date)
		tj, _ := ParseDate(out[j].Date)
		return ti.Before(tj)
	})
	return out
}

// FirstEventDate returns the date token of the chronologically first entry
// of a merged timeline, or "" when the timeline is empty.
func FirstEventDate(events []domain.ShopEvent) string {
	if len(events) == 0 {
		return ""
	}
	return events[0].Date
}

// LastEventDate returns the date token of the chronologically last entry of
// a merged timeline, or "" when the timeline is empty.
func LastEventDate(events []domain.ShopEvent) string {
	if len(events) == 0 {
		return ""
	}
	return events[len(events)-1].Date
}

package lifecycle

import (
	"sort"
	"strings"
	"time"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
)

// Summary is a ShopRecord enriched with every derived value the dashboard
// table and the CSV export show. It is recomputed from the timeline on each
// read; nothing in it is independently mutable state.
type Summary struct {
	Domain         string      `json:"shopDomain"`
	Name           string      `json:"shopName"`
	Country        string      `json:"shopCountry"`
	Email          string      `json:"shopEmail"`
	CurrentEvent   string      `json:"currentEvent"`
	Group          StatusGroup `json:"statusGroup"`
	FirstEventDate string      `json:"firstEventDate"`
	LastEventDate  string      `json:"lastEventDate"`
	TotalSpent     float64     `json:"totalSpent"`
	ActiveMonths   int         `json:"activeMonths"`
	PlanName       string      `json:"planName"`
	PlanPrice      float64     `json:"planPrice"`
	Events         int         `json:"eventCount"`
}

// Summarize derives the full dashboard view of one record at the given
// evaluation instant. The record's timeline must already be merged.
func Summarize(rec domain.ShopRecord, now time.Time) Summary {
	cls := Classify(rec.Events)
	acc := Accrue(rec.Events, now)
	plan := CurrentPlan(rec.Events)
	return Summary{
		Domain:         rec.Domain,
		Name:           rec.Info.Name,
		Country:        rec.Info.Country,
		Email:          rec.Info.Email,
		CurrentEvent:   cls.CurrentEvent,
		Group:          cls.Group,
		FirstEventDate: FirstEventDate(rec.Events),
		LastEventDate:  LastEventDate(rec.Events),
		TotalSpent:     acc.Amount,
		ActiveMonths:   acc.Months,
		PlanName:       plan.Name,
		PlanPrice:      plan.Price,
		Events:         len(rec.Events),
	}
}

// Filter selects summaries for display or export. Zero values match
// everything.
type Filter struct {
	// Domain is matched as a case-insensitive substring of the shop domain.
	Domain string
	// Statuses matches when empty, or when any element equals the
	// classified group OR the raw current event name (case-insensitive).
	// Both a chart click-through (group label) and a manual dropdown
	// (literal event name) filter through this same predicate.
	Statuses []string
	// Plan is matched as a case-insensitive substring of the plan name.
	Plan string
}

func (f Filter) matches(s Summary) bool {
	if f.Domain != "" && !strings.Contains(strings.ToLower(s.Domain), strings.ToLower(f.Domain)) {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, want := range f.Statuses {
			if strings.EqualFold(want, string(s.Group)) || strings.EqualFold(want, s.CurrentEvent) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.Plan != "" && !strings.Contains(strings.ToLower(s.PlanName), strings.ToLower(f.Plan)) {
		return false
	}
	return true
}

// SortKey names the single active sort column. Keys are mutually exclusive:
// the enum carries at most one, so callers cannot stack sorts.
type SortKey string

const (
	SortNone       SortKey = ""
	SortFirstEvent SortKey = "first_event"
	SortLastEvent  SortKey = "last_event"
	SortPlanPrice  SortKey = "plan_price"
)

// ParseSortKey maps a query-param token onto a SortKey; unknown tokens mean
// no sort.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortFirstEvent:
		return SortFirstEvent
	case SortLastEvent:
		return SortLastEvent
	case SortPlanPrice:
		return SortPlanPrice
	}
	return SortNone
}

// SortSpec is the active sort order. The zero value sorts by domain only.
type SortSpec struct {
	Key        SortKey
	Descending bool
}

// Apply filters and sorts summaries. Records with equal sort-key values
// (and all records when no key is set) fall back to ascending domain order,
// so output is deterministic for testing. Unparsable or missing dates sort
// as the epoch, consistent with the timeline sort.
func Apply(records []Summary, f Filter, spec SortSpec) []Summary {
	out := make([]Summary, 0, len(records))
	for _, s := range records {
		if f.matches(s) {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less, equal bool
		switch spec.Key {
		case SortFirstEvent:
			ta, _ := ParseDate(a.FirstEventDate)
			tb, _ := ParseDate(b.FirstEventDate)
			less, equal = ta.Before(tb), ta.Equal(tb)
		case SortLastEvent:
			ta, _ := ParseDate(a.LastEventDate)
			tb, _ := ParseDate(b.LastEventDate)
			less, equal = ta.Before(tb), ta.Equal(tb)
		case SortPlanPrice:
			less, equal = a.PlanPrice < b.PlanPrice, a.PlanPrice == b.PlanPrice
		default:
			return a.Domain < b.Domain
		}
		if equal {
			return a.Domain < b.Domain
		}
		if spec.Descending {
			return !less
		}
		return less
	})
	return out
}

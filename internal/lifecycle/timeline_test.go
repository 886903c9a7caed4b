package lifecycle

import (
	"reflect"
	"testing"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
)

func TestMergeDedupFillForward(t *testing.T) {
	existing := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Installed"},
		{Date: "2024-02-01", Name: "Subscription charge activated", Details: ""},
	}
	incoming := []domain.ShopEvent{
		{Date: "2024-02-01", Name: "Subscription charge activated", Details: "$29.00", BillingDate: "2024-02-01"},
		{Date: "2024-01-01", Name: "Installed"},
	}

	got := Merge(existing, incoming)
	if len(got) != 2 {
		t.Fatalf("expected 2 merged events, got %d: %v", len(got), got)
	}
	if got[0].Name != "Installed" {
		t.Errorf("expected Installed first, got %s", got[0].Name)
	}
	if got[1].Details != "$29.00" || got[1].BillingDate != "2024-02-01" {
		t.Errorf("fill-forward lost fields: %+v", got[1])
	}
}

func TestMergeFillForwardPerField(t *testing.T) {
	// details and billingDate fill independently: each comes from a
	// different duplicate, both survive.
	a := []domain.ShopEvent{{Date: "2024-03-01", Name: "Subscription charge activated", Details: "$10"}}
	b := []domain.ShopEvent{{Date: "2024-03-01", Name: "Subscription charge activated", BillingDate: "2024-03-05"}}

	got := Merge(a, b)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Details != "$10" || got[0].BillingDate != "2024-03-05" {
		t.Errorf("per-field fill-forward broken: %+v", got[0])
	}
}

func TestMergeCommutativeDetails(t *testing.T) {
	// Same (date, event) with one empty and one non-empty details yields
	// the non-empty one in either order.
	full := domain.ShopEvent{Date: "2024-01-01", Name: "Installed", Details: "via partner"}
	empty := domain.ShopEvent{Date: "2024-01-01", Name: "Installed"}

	ab := Merge([]domain.ShopEvent{full}, []domain.ShopEvent{empty})
	ba := Merge([]domain.ShopEvent{empty}, []domain.ShopEvent{full})
	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("order changed outcome: %v vs %v", ab, ba)
	}
	if ab[0].Details != "via partner" {
		t.Errorf("non-empty details did not survive: %+v", ab[0])
	}
}

func TestMergeIdempotent(t *testing.T) {
	a := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Installed"},
		{Date: "2024-05-01", Name: "Uninstalled"},
	}
	b := []domain.ShopEvent{
		{Date: "2024-02-01", Name: "Subscription charge activated", Details: "$5", BillingDate: "2024-02-01"},
		{Date: "2024-01-01", Name: "Installed", Details: "organic"},
	}

	once := Merge(a, b)
	twice := Merge(once, b)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-merging the same batch changed state:\n once=%v\ntwice=%v", once, twice)
	}
}

func TestMergeDropsMalformed(t *testing.T) {
	got := Merge(nil, []domain.ShopEvent{
		{Date: "", Name: "Installed"},
		{Date: "2024-01-01", Name: ""},
		{Date: "2024-01-01", Name: "Installed"},
	})
	if len(got) != 1 || got[0].Name != "Installed" {
		t.Errorf("malformed events not dropped: %v", got)
	}
}

func TestMergeSortOrder(t *testing.T) {
	got := Merge(nil, []domain.ShopEvent{
		{Date: "2024-06-01", Name: "Uninstalled"},
		{Date: "garbage", Name: "Mystery"},
		{Date: "2023-12-25", Name: "Installed"},
	})

	var prev int64 = -1
	for _, ev := range got {
		ts, _ := ParseDate(ev.Date)
		if ts.Unix() < prev {
			t.Fatalf("timeline not non-decreasing: %v", got)
		}
		prev = ts.Unix()
	}
	// Unparsable dates pin to the epoch and therefore sort first.
	if got[0].Name != "Mystery" {
		t.Errorf("expected unparsable date first, got %v", got)
	}
}

func TestMergeDuplicateKeyInvariant(t *testing.T) {
	got := Merge(
		[]domain.ShopEvent{{Date: "2024-01-01", Name: "Installed"}},
		[]domain.ShopEvent{{Date: "2024-01-01", Name: "Installed", Details: "x"}},
	)
	seen := map[string]bool{}
	for _, ev := range got {
		key := ev.Date + "|" + ev.Name
		if seen[key] {
			t.Fatalf("duplicate (date, event) key %q in merged timeline", key)
		}
		seen[key] = true
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		unix int64
	}{
		{"2024-01-01", true, 1704067200},
		{"01/15/2024", true, 1705276800},
		{"", false, 0},
		{"not a date", false, 0},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if got.Unix() != tt.unix {
			t.Errorf("ParseDate(%q) = %d, want %d", tt.in, got.Unix(), tt.unix)
		}
	}
}

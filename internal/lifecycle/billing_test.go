package lifecycle

import (
	"math"
	"testing"
	"time"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t.UTC()
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAccrueSingleCycle(t *testing.T) {
	events := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Subscription charge activated", Details: "$29", BillingDate: "2024-01-01"},
		{Date: "2024-04-01", Name: "Subscription charge canceled"},
	}

	got := Accrue(events, date("2025-01-01"))
	if got.Months != 3 || !approx(got.Amount, 87) {
		t.Errorf("Accrue() = %+v, want 3 months / $87", got)
	}
}

func TestAccrueOpenCycle(t *testing.T) {
	events := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Subscription charge activated", Details: "$10", BillingDate: "2024-01-01"},
	}

	got := Accrue(events, date("2024-03-02"))
	if got.Months != 2 || !approx(got.Amount, 20) {
		t.Errorf("open cycle Accrue() = %+v, want 2 months / $20", got)
	}
}

func TestAccrueMultiCycle(t *testing.T) {
	events := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Subscription charge activated", Details: "$10", BillingDate: "2024-01-01"},
		{Date: "2024-03-01", Name: "Subscription charge canceled"},
		{Date: "2024-06-01", Name: "Subscription charge activated", Details: "$20", BillingDate: "2024-06-01"},
		{Date: "2024-12-01", Name: "Uninstalled"},
	}

	got := Accrue(events, date("2025-06-01"))
	// cycle 1: 60 days -> 2 months x $10; cycle 2: 183 days -> 6 months x $20
	if got.Months != 8 || !approx(got.Amount, 140) {
		t.Errorf("multi-cycle Accrue() = %+v, want 8 months / $140", got)
	}
}

func TestAccrueReactivationClosesPriorPeriod(t *testing.T) {
	// Second activation with no intervening cancel settles the first
	// period at the second activation's billing anchor.
	events := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Subscription charge activated", Details: "$10", BillingDate: "2024-01-01"},
		{Date: "2024-03-02", Name: "Subscription charge activated", Details: "$30", BillingDate: "2024-03-02"},
		{Date: "2024-05-02", Name: "Subscription charge canceled"},
	}

	got := Accrue(events, date("2025-01-01"))
	// 61 days x $10 -> 2 months; 61 days x $30 -> 2 months
	if got.Months != 4 || !approx(got.Amount, 80) {
		t.Errorf("reactivation Accrue() = %+v, want 4 months / $80", got)
	}
}

func TestAccrueUnpricedActivationIsInert(t *testing.T) {
	events := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Subscription charge activated", Details: "free trial", BillingDate: "2024-01-01"},
	}
	got := Accrue(events, date("2024-06-01"))
	if got.Months != 0 || got.Amount != 0 {
		t.Errorf("unpriced activation accrued: %+v", got)
	}
}

func TestAccrueActivationWithoutBillingAnchor(t *testing.T) {
	// Observed behavior preserved: no billing date means no period opens.
	events := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Subscription charge activated", Details: "$50"},
	}
	got := Accrue(events, date("2024-06-01"))
	if got.Months != 0 || got.Amount != 0 {
		t.Errorf("anchorless activation opened a period: %+v", got)
	}
}

func TestAccrueCloseWithoutOpenIsNoop(t *testing.T) {
	events := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Uninstalled"},
		{Date: "2024-02-01", Name: "Subscription charge canceled"},
	}
	got := Accrue(events, date("2024-06-01"))
	if got.Months != 0 || got.Amount != 0 {
		t.Errorf("closing events accrued with no open period: %+v", got)
	}
}

func TestAccrueEmptyTimeline(t *testing.T) {
	got := Accrue(nil, date("2024-06-01"))
	if got.Months != 0 || got.Amount != 0 {
		t.Errorf("empty timeline accrued: %+v", got)
	}
}

func TestBillableMonths(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-04-01", 3},
		{"2024-01-01", "2024-03-02", 2},
		{"2024-01-01", "2024-01-30", 0},
		{"2024-01-01", "2024-01-31", 1},
		{"2024-04-01", "2024-01-01", 0},
		{"2024-01-01", "2024-01-01", 0},
	}
	for _, tt := range tests {
		if got := BillableMonths(date(tt.start), date(tt.end)); got != tt.want {
			t.Errorf("BillableMonths(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"Recurring charge $29.90 (Pro)", 29.90, true},
		{"$5", 5, true},
		{"USD 12.00", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractPrice(tt.in)
		if ok != tt.ok || !approx(got, tt.want) {
			t.Errorf("ExtractPrice(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCurrentPlan(t *testing.T) {
	events := []domain.ShopEvent{
		{Date: "2024-01-01", Name: "Subscription charge activated", Details: "Basic $9.00", BillingDate: "2024-01-01"},
		{Date: "2024-06-01", Name: "Subscription charge activated", Details: "Pro $29.00", BillingDate: "2024-06-01"},
	}
	plan := CurrentPlan(events)
	if plan.Name != "Pro $29.00" || !approx(plan.Price, 29) {
		t.Errorf("CurrentPlan() = %+v", plan)
	}
}

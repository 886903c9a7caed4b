package lifecycle

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
)

// Event name fragments driving the billing state machine. Matched
// case-insensitively as substrings of the event name.
const activatedFragment = "subscription charge activated"

var closingFragments = []string{
	"subscription charge canceled",
	"frozen",
	"store closed",
	"uninstalled",
	"declined",
}

// priceRe extracts a $-prefixed decimal amount from an activation event's
// details field, e.g. "Recurring charge $29.90 (Pro plan)".
var priceRe = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)`)

// ExtractPrice pulls the subscription price out of an activation's details.
// Returns false when no $-amount is present; such activations are inert for
// billing.
func ExtractPrice(details string) (float64, bool) {
	m := priceRe.FindStringSubmatch(details)
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// Accrual is the accumulated billing outcome of one shop timeline.
type Accrual struct {
	Amount float64 `json:"totalSpent"`
	Months int     `json:"activeMonths"`
}

// Accrue walks a merged, sorted timeline and computes total accrued
// subscription revenue and active-month count across all activation/
// cancellation cycles. Still-open subscriptions are closed at now, which is
// passed explicitly so the function stays pure and testable.
//
// An activation without an extractable price does not transition state. An
// activation without a billing date closes any open period but opens no new
// one: billing starts only from a known anchor date.
func Accrue(events []domain.ShopEvent, now time.Time) Accrual {
	var acc Accrual
	var activePrice float64
	var periodStart time.Time
	active := false

	settle := func(end time.Time) {
		months := BillableMonths(periodStart, end)
		acc.Amount += float64(months) * activePrice
		acc.Months += months
		active = false
		activePrice = 0
	}

	for _, ev := range events {
		name := strings.ToLower(ev.Name)

		if strings.Contains(name, activatedFragment) {
			price, ok := ExtractPrice(ev.Details)
			if !ok {
				continue
			}
			if active {
				// Prior activation was never closed; settle it at this
				// event's billing anchor before opening the next cycle.
				settle(periodEnd(ev, now))
			}
			if ev.BillingDate == "" {
				continue
			}
			start, _ := ParseDate(ev.BillingDate)
			periodStart = start
			activePrice = price
			active = true
			continue
		}

		for _, frag := range closingFragments {
			if strings.Contains(name, frag) {
				if active {
					settle(periodEnd(ev, now))
				}
				break
			}
		}
	}

	if active {
		settle(now)
	}
	return acc
}

// periodEnd resolves the boundary a closing event settles at: the event's
// billing date, then its own date, then now.
func periodEnd(ev domain.ShopEvent, now time.Time) time.Time {
	if ev.BillingDate != "" {
		t, _ := ParseDate(ev.BillingDate)
		return t
	}
	if ev.Date != "" {
		t, _ := ParseDate(ev.Date)
		return t
	}
	return now
}

// BillableMonths counts whole 30-day units between start and end, with
// time-of-day stripped in UTC. Negative spans count as zero. This is a
// fixed 30-day-month approximation, not calendar-month arithmetic.
func BillableMonths(start, end time.Time) int {
	s := truncateDay(start)
	e := truncateDay(end)
	if e.Before(s) {
		return 0
	}
	days := int(e.Sub(s).Hours() / 24)
	return days / 30
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Plan describes the most recent subscription activation seen on a
// timeline: the raw details text and the price extracted from it. Zero
// value when the shop never activated a priced subscription.
type Plan struct {
	Name  string  `json:"planName"`
	Price float64 `json:"planPrice"`
}

// CurrentPlan scans a merged timeline for the latest activation event with
// an extractable price.
func CurrentPlan(events []domain.ShopEvent) Plan {
	var plan Plan
	for _, ev := range events {
		if !strings.Contains(strings.ToLower(ev.Name), activatedFragment) {
			continue
		}
		if price, ok := ExtractPrice(ev.Details); ok {
			plan = Plan{Name: strings.TrimSpace(ev.Details), Price: price}
		}
	}
	return plan
}

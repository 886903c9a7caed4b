package ingest

import "strings"

// CanonicalField is a normalized column name used across all export sources.
type CanonicalField string

const (
	FieldDomain      CanonicalField = "shop_domain"
	FieldName        CanonicalField = "shop_name"
	FieldCountry     CanonicalField = "shop_country"
	FieldEmail       CanonicalField = "shop_email"
	FieldDate        CanonicalField = "date"
	FieldEvent       CanonicalField = "event"
	FieldDetails     CanonicalField = "details"
	FieldBillingDate CanonicalField = "billing_date"
)

// columnAliases maps lowercase header names to canonical fields. The source
// files come from several partner export tools, so most columns have more
// than one spelling.
var columnAliases = map[string]CanonicalField{
	// Shop domain
	"shop_domain": FieldDomain,
	"shopdomain":  FieldDomain,
	"shop domain": FieldDomain,
	"domain":      FieldDomain,
	"shop_url":    FieldDomain,
	"store_url":   FieldDomain,
	"myshopify_domain": FieldDomain,

	// Shop name
	"shop_name": FieldName,
	"shopname":  FieldName,
	"shop name": FieldName,
	"store_name": FieldName,
	"name":       FieldName,

	// Country
	"shop_country": FieldCountry,
	"country":      FieldCountry,
	"country_code": FieldCountry,

	// Email
	"shop_email": FieldEmail,
	"email":      FieldEmail,
	"owner_email": FieldEmail,
	"contact_email": FieldEmail,

	// Event date
	"date":       FieldDate,
	"event_date": FieldDate,
	"occurred_at": FieldDate,
	"timestamp":   FieldDate,

	// Event name
	"event":      FieldEvent,
	"event_name": FieldEvent,
	"event_type": FieldEvent,
	"action":     FieldEvent,

	// Details
	"details":     FieldDetails,
	"detail":      FieldDetails,
	"description": FieldDetails,
	"notes":       FieldDetails,

	// Billing date
	"billing_date":    FieldBillingDate,
	"billingdate":     FieldBillingDate,
	"billing date":    FieldBillingDate,
	"billing_on":      FieldBillingDate,
	"next_billing_on": FieldBillingDate,
}

// ColumnMapping maps CSV column indexes onto canonical fields for one file.
type ColumnMapping struct {
	FieldMap map[int]CanonicalField
	RawNames []string
}

// MapColumns resolves a header row into a column mapping. Returns nil when
// no shop-domain column can be detected; without the identity column the
// file cannot be imported at all.
func MapColumns(header []string) *ColumnMapping {
	m := &ColumnMapping{
		FieldMap: make(map[int]CanonicalField),
		RawNames: header,
	}

	assigned := make(map[CanonicalField]bool)
	for i, raw := range header {
		key := strings.ToLower(strings.TrimSpace(raw))
		field, ok := columnAliases[key]
		if !ok || assigned[field] {
			// Unknown columns are ignored; on duplicates the first wins.
			continue
		}
		m.FieldMap[i] = field
		assigned[field] = true
	}

	if !assigned[FieldDomain] {
		return nil
	}
	return m
}

package ingest

import (
	"strings"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
)

// Row is the normalized output of one CSV record: which shop it belongs to,
// the descriptive fields carried on the row, and the lifecycle event.
type Row struct {
	Domain string
	Info   domain.ShopInfo
	Event  domain.ShopEvent
}

// NormalizeRow maps one CSV record through the column mapping. Returns
// false when the row lacks a shop domain, an event date, or an event name;
// such rows are routine input hygiene, not errors.
func NormalizeRow(record []string, mapping *ColumnMapping) (Row, bool) {
	var row Row
	for i, val := range record {
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		field, mapped := mapping.FieldMap[i]
		if !mapped {
			continue
		}
		switch field {
		case FieldDomain:
			row.Domain = strings.ToLower(val)
		case FieldName:
			row.Info.Name = val
		case FieldCountry:
			row.Info.Country = strings.ToUpper(val)
		case FieldEmail:
			row.Info.Email = strings.ToLower(val)
		case FieldDate:
			row.Event.Date = val
		case FieldEvent:
			row.Event.Name = val
		case FieldDetails:
			row.Event.Details = val
		case FieldBillingDate:
			row.Event.BillingDate = val
		}
	}

	if row.Domain == "" || !row.Event.Valid() {
		return Row{}, false
	}
	return row, true
}

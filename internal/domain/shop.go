package domain

// ShopEvent is one lifecycle occurrence for a shop as it arrives from an
// ingestion source. Date and billing date are kept as the raw normalized
// string tokens: the dedup identity for a timeline entry is the literal
// (Date, Name) pair, not semantic date equality.
type ShopEvent struct {
	Date        string `json:"date"`
	Name        string `json:"event"`
	Details     string `json:"details,omitempty"`
	BillingDate string `json:"billingDate,omitempty"`
}

// Valid reports whether the event carries the two required fields.
// Events failing this are dropped during merge, not surfaced as errors.
func (e ShopEvent) Valid() bool {
	return e.Date != "" && e.Name != ""
}

// ShopInfo holds the descriptive fields of a shop. Every field has
// last-non-empty-wins semantics across ingestion batches.
type ShopInfo struct {
	Name    string `json:"shopName"`
	Country string `json:"shopCountry"`
	Email   string `json:"shopEmail"`
}

// ShopRecord is the durable per-shop aggregate. Domain is the immutable
// identity; Events is the canonical deduplicated timeline, sorted ascending
// by parsed date. Derived values (status, accrued revenue, first/last event
// dates) are recomputed per read and never persisted.
type ShopRecord struct {
	Domain string      `json:"shopDomain"`
	Info   ShopInfo    `json:"info"`
	Events []ShopEvent `json:"events"`
}

// MergeInfo overlays incoming descriptive fields onto the record,
// keeping existing values where the incoming ones are empty.
func (r *ShopRecord) MergeInfo(in ShopInfo) {
	if in.Name != "" {
		r.Info.Name = in.Name
	}
	if in.Country != "" {
		r.Info.Country = in.Country
	}
	if in.Email != "" {
		r.Info.Email = in.Email
	}
}

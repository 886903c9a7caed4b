package lifecycle

import (
	"strings"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
)

// StatusGroup is the coarse lifecycle classification derived from the most
// recent event, distinct from the raw event name.
type StatusGroup string

const (
	GroupActive   StatusGroup = "Active"
	GroupInactive StatusGroup = "Inactive"
	GroupUnknown  StatusGroup = "Unknown"
)

// Classification is the result of classifying a shop timeline.
type Classification struct {
	CurrentEvent string      `json:"currentEvent"`
	Group        StatusGroup `json:"statusGroup"`
}

// Rule maps an event name onto a status group. Matching is against the
// lowercased current event name: Exact entries match whole, Contains
// entries match as substrings.
type Rule struct {
	Group    StatusGroup
	Exact    []string
	Contains []string
}

func (r Rule) matches(name string) bool {
	for _, e := range r.Exact {
		if name == e {
			return true
		}
	}
	for _, c := range r.Contains {
		if strings.Contains(name, c) {
			return true
		}
	}
	return false
}

// Vocabulary is an ordered rule list; the first matching rule wins. Both the
// ingestion path and the display path classify through the same vocabulary,
// so the two can never drift apart.
type Vocabulary []Rule

// DefaultVocabulary is the production grouping of shop lifecycle events.
var DefaultVocabulary = Vocabulary{
	{Group: GroupInactive, Exact: []string{"uninstalled"}, Contains: []string{"canceled", "cancelled"}},
	{Group: GroupActive, Exact: []string{"installed"}, Contains: []string{"store", "subscription"}},
}

// Classify classifies a merged timeline under the default vocabulary.
func Classify(events []domain.ShopEvent) Classification {
	return ClassifyWith(DefaultVocabulary, events)
}

// ClassifyWith derives the current event and status group of a merged,
// sorted timeline. An empty timeline classifies as "Unknown"/Unknown; it is
// never an error.
func ClassifyWith(vocab Vocabulary, events []domain.ShopEvent) Classification {
	if len(events) == 0 {
		return Classification{CurrentEvent: "Unknown", Group: GroupUnknown}
	}

	current := events[len(events)-1].Name
	name := strings.ToLower(current)
	for _, rule := range vocab {
		if rule.matches(name) {
			return Classification{CurrentEvent: current, Group: rule.Group}
		}
	}
	return Classification{CurrentEvent: current, Group: GroupUnknown}
}

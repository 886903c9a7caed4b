package lifecycle

import (
	"testing"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		events    []domain.ShopEvent
		wantEvent string
		wantGroup StatusGroup
	}{
		{
			"empty timeline",
			nil,
			"Unknown", GroupUnknown,
		},
		{
			"uninstalled",
			[]domain.ShopEvent{{Date: "2024-01-01", Name: "Uninstalled"}},
			"Uninstalled", GroupInactive,
		},
		{
			"installed",
			[]domain.ShopEvent{{Date: "2024-01-01", Name: "Installed"}},
			"Installed", GroupActive,
		},
		{
			"subscription charge activated",
			[]domain.ShopEvent{{Date: "2024-01-01", Name: "Subscription charge activated"}},
			"Subscription charge activated", GroupActive,
		},
		{
			"canceled beats subscription keyword",
			[]domain.ShopEvent{{Date: "2024-01-01", Name: "Subscription charge canceled"}},
			"Subscription charge canceled", GroupInactive,
		},
		{
			"british spelling",
			[]domain.ShopEvent{{Date: "2024-01-01", Name: "Charge cancelled"}},
			"Charge cancelled", GroupInactive,
		},
		{
			"store closed",
			[]domain.ShopEvent{{Date: "2024-01-01", Name: "Store closed"}},
			"Store closed", GroupActive,
		},
		{
			"unrecognized event",
			[]domain.ShopEvent{{Date: "2024-01-01", Name: "Relisted"}},
			"Relisted", GroupUnknown,
		},
		{
			"last event wins",
			[]domain.ShopEvent{
				{Date: "2024-01-01", Name: "Installed"},
				{Date: "2024-02-01", Name: "Uninstalled"},
			},
			"Uninstalled", GroupInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.events)
			if got.CurrentEvent != tt.wantEvent || got.Group != tt.wantGroup {
				t.Errorf("Classify() = {%s %s}, want {%s %s}",
					got.CurrentEvent, got.Group, tt.wantEvent, tt.wantGroup)
			}
		})
	}
}

func TestClassifyWithCustomVocabulary(t *testing.T) {
	vocab := Vocabulary{
		{Group: GroupActive, Contains: []string{"charge"}},
	}
	got := ClassifyWith(vocab, []domain.ShopEvent{{Date: "2024-01-01", Name: "Charge cancelled"}})
	if got.Group != GroupActive {
		t.Errorf("custom vocabulary not applied, got %s", got.Group)
	}
}

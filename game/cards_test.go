package game

import (
	"testing"
)

func TestStatusDeck_catalog(t *testing.T) {
	deck := StatusDeck()
	if len(deck) != 16 {
		t.Errorf("deck size: %d", len(deck))
	}

	triggers := 0
	disgrace := 0
	luxSum := 0
	for _, c := range deck {
		if c.EndTrigger() {
			triggers++
		}
		if c.Disgrace() {
			disgrace++
		}
		if c.Kind == KindLuxury {
			luxSum += c.Value
		}
	}
	if triggers != 4 {
		t.Errorf("triggers: %d", triggers)
	}
	if disgrace != 3 {
		t.Errorf("disgrace: %d", disgrace)
	}
	if luxSum != 55 {
		t.Errorf("luxury sum: %d", luxSum)
	}
}

func TestStatusDeck_uniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range StatusDeck() {
		if seen[c.ID] {
			t.Errorf("duplicate id: %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestDealMoney(t *testing.T) {
	hand := dealMoney("p1")
	if len(hand) != len(Denominations) {
		t.Errorf("hand size: %d", len(hand))
	}
	total := 0
	for _, c := range hand {
		total += c.Value
	}
	if total != TotalMoney {
		t.Errorf("total: %d", total)
	}
}

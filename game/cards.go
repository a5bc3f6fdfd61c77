package game

import "fmt"

// StatusKind discriminates the closed set of status card types. Scoring and
// (de)serialization switch on it exhaustively.
type StatusKind string

const (
	KindLuxury   StatusKind = "luxury"
	KindPrestige StatusKind = "prestige"
	KindFauxPas  StatusKind = "fauxpas"
	KindPasse    StatusKind = "passe"
	KindScandale StatusKind = "scandale"
)

// StatusCard is one card of the fixed 16 card catalog. Identity is by ID.
type StatusCard struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Kind  StatusKind `json:"kind"`
	Value int        `json:"value"`
}

// EndTrigger reports whether drawing this card counts towards the game end.
func (c StatusCard) EndTrigger() bool {
	return c.Kind == KindPrestige || c.Kind == KindScandale
}

// Disgrace reports whether this card is auctioned in the reverse variant.
func (c StatusCard) Disgrace() bool {
	switch c.Kind {
	case KindFauxPas, KindPasse, KindScandale:
		return true
	case KindLuxury, KindPrestige:
		return false
	}
	return false
}

// MoneyCard is a fixed denomination owned by one player for the whole match.
type MoneyCard struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

// Denominations is the money dealt to every player, totalling 106000.
var Denominations = []int{1000, 2000, 3000, 4000, 6000, 8000, 10000, 12000, 15000, 20000, 25000}

// TotalMoney is the sum of Denominations.
const TotalMoney = 106000

// endTriggerLimit is how many flagged draws end the game.
const endTriggerLimit = 4

// StatusDeck builds the full 16 card catalog in a fixed order:
// 10 luxury, 3 prestige, 3 disgrace.
func StatusDeck() []StatusCard {
	deck := make([]StatusCard, 0, 16)
	for v := 1; v <= 10; v++ {
		deck = append(deck, StatusCard{
			ID:    fmt.Sprintf("lux-%d", v),
			Name:  fmt.Sprintf("Luxury %d", v),
			Kind:  KindLuxury,
			Value: v,
		})
	}
	for i, name := range []string{"Avant Garde", "Bon Vivant", "Joie de Vivre"} {
		deck = append(deck, StatusCard{
			ID:   fmt.Sprintf("prestige-%d", i+1),
			Name: name,
			Kind: KindPrestige,
		})
	}
	deck = append(deck,
		StatusCard{ID: "fauxpas", Name: "Faux Pas", Kind: KindFauxPas},
		StatusCard{ID: "passe", Name: "Passé", Kind: KindPasse, Value: -5},
		StatusCard{ID: "scandale", Name: "Scandale", Kind: KindScandale},
	)
	return deck
}

// dealMoney makes the money hand for one player, ids prefixed by player id.
func dealMoney(playerID string) []MoneyCard {
	hand := make([]MoneyCard, 0, len(Denominations))
	for _, v := range Denominations {
		hand = append(hand, MoneyCard{
			ID:    fmt.Sprintf("%s-m%d", playerID, v),
			Value: v,
		})
	}
	return hand
}

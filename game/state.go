package game

import (
	"math/rand"
	"time"
)

// PlayerSnapshot is the wire projection of one ledger.
type PlayerSnapshot struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Colour         string       `json:"colour"`
	Hand           []MoneyCard  `json:"hand"`
	Wager          []MoneyCard  `json:"wager"`
	Collection     []StatusCard `json:"collection"`
	PendingDiscard bool         `json:"pendingDiscard"`
}

// AuctionSnapshot is the wire projection of the live auction.
type AuctionSnapshot struct {
	Variant  AuctionVariant `json:"variant"`
	Card     StatusCard     `json:"card"`
	Eligible []string       `json:"eligible"`
	HighBid  int            `json:"highBid"`
	Winner   string         `json:"winner,omitempty"`
	Complete bool           `json:"complete"`
}

// Snapshot is the full serializable projection of a match. The undrawn deck
// never goes on the wire, only its count; discarded status cards are listed
// so a restore can rebuild the deck by elimination against the catalog.
type Snapshot struct {
	Players       []PlayerSnapshot `json:"players"`
	Auction       *AuctionSnapshot `json:"auction,omitempty"`
	Revealed      []StatusCard     `json:"revealed"`
	Triggers      int              `json:"triggers"`
	DeckRemaining int              `json:"deckRemaining"`
	Phase         Phase            `json:"phase"`
	Turn          int              `json:"turn"`
	TurnSeconds   int              `json:"turnSeconds"`
}

// Snapshot builds a deep copy projection of the current state.
func (g *game) Snapshot() Snapshot {
	s := Snapshot{
		Revealed:      append([]StatusCard{}, g.revealed...),
		Triggers:      g.triggers,
		DeckRemaining: len(g.deck),
		Phase:         g.phase,
		Turn:          g.turn,
		TurnSeconds:   g.turnSeconds,
	}
	for _, p := range g.players {
		s.Players = append(s.Players, PlayerSnapshot{
			ID:             p.ID,
			Name:           p.Name,
			Colour:         p.Colour,
			Hand:           append([]MoneyCard{}, p.Hand...),
			Wager:          append([]MoneyCard{}, p.Wager...),
			Collection:     append([]StatusCard{}, p.Collection...),
			PendingDiscard: p.PendingDiscard,
		})
	}
	if g.auction != nil {
		s.Auction = &AuctionSnapshot{
			Variant:  g.auction.Variant,
			Card:     g.auction.Card,
			Eligible: append([]string{}, g.auction.Eligible...),
			HighBid:  g.auction.HighBid,
			Winner:   g.auction.Winner,
			Complete: g.auction.Complete,
		}
	}
	return s
}

// Restore is the factory that rebuilds a playable Game from a snapshot,
// re-establishing every derived invariant instead of injecting raw fields.
// The undrawn deck is reconstructed by elimination: catalog minus every card
// seen in the reveal history, then reshuffled, since the original order was
// deliberately not serialized.
func Restore(s Snapshot) (Game, error) {
	if len(s.Players) < 2 || len(s.Players) > len(colours) {
		return nil, ErrBadSnapshot
	}

	g := &game{
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		revealed:    append([]StatusCard{}, s.Revealed...),
		triggers:    s.Triggers,
		phase:       s.Phase,
		turn:        s.Turn,
		turnSeconds: s.TurnSeconds,
	}
	if s.Turn < 0 || s.Turn >= len(s.Players) {
		return nil, ErrBadSnapshot
	}

	for _, ps := range s.Players {
		p := &player{
			ID:             ps.ID,
			Name:           ps.Name,
			Colour:         ps.Colour,
			Hand:           append([]MoneyCard{}, ps.Hand...),
			Wager:          append([]MoneyCard{}, ps.Wager...),
			Collection:     append([]StatusCard{}, ps.Collection...),
			PendingDiscard: ps.PendingDiscard,
		}
		if p.totalRemainingMoney() > TotalMoney {
			return nil, ErrBadSnapshot
		}
		g.players = append(g.players, p)
	}

	drawn := map[string]bool{}
	for _, c := range s.Revealed {
		drawn[c.ID] = true
	}
	for _, c := range StatusDeck() {
		if !drawn[c.ID] {
			g.deck = append(g.deck, c)
		}
	}
	if len(g.deck) != s.DeckRemaining {
		return nil, ErrBadSnapshot
	}
	g.rnd.Shuffle(len(g.deck), func(i, j int) {
		g.deck[i], g.deck[j] = g.deck[j], g.deck[i]
	})

	if s.Auction != nil {
		a := &auction{
			Variant:  s.Auction.Variant,
			Card:     s.Auction.Card,
			Eligible: append([]string{}, s.Auction.Eligible...),
			HighBid:  s.Auction.HighBid,
			Winner:   s.Auction.Winner,
			Complete: s.Auction.Complete,
		}
		for _, id := range a.Eligible {
			if g.byID(id) == nil {
				return nil, ErrBadSnapshot
			}
		}
		g.auction = a
	}

	return g, nil
}

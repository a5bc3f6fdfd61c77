package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Phase is the controller's lifecycle state.
type Phase string

const (
	PhaseSetup     Phase = "SETUP"
	PhaseAscending Phase = "BIDDING-ASCENDING"
	PhaseReverse   Phase = "BIDDING-REVERSE"
	PhaseScoring   Phase = "SCORING"
	PhaseFinished  Phase = "FINISHED"
)

// AuctionOutcome reports a resolved auction.
type AuctionOutcome struct {
	WinnerID  string     `json:"winnerId"`
	Card      StatusCard `json:"card"`
	BidAmount int        `json:"bidAmount"`
}

// Game is the deterministic rules engine for one match. It has no
// concurrency control of its own; the host's single apply loop is the only
// legal caller of the mutating operations.
type Game interface {
	// activities
	StartNewRound() error
	Bid(playerID string, moneyCardIDs []string) error
	Pass(playerID string) error
	CompleteAuction() (*AuctionOutcome, error)
	DiscardLuxury(playerID, cardID string) error
	Rankings() ([]Ranking, error)

	// general state
	Phase() Phase
	TurnPlayer() string
	AuctionDone() bool
	Snapshot() Snapshot
}

// Options tune a new game. A nil Seed means a time-seeded shuffle. A host
// may supply PlayerIDs to keep engine ids equal to its seat ids; by default
// ids are assigned by input order.
type Options struct {
	Seed        *int64
	TurnSeconds int
	PlayerIDs   []string
}

var colours = []string{"red", "blue", "green", "yellow", "purple"}

type game struct {
	rnd *rand.Rand

	players  []*player
	deck     []StatusCard // undrawn, deck[0] is the top
	revealed []StatusCard
	triggers int
	phase    Phase
	turn     int // index into players
	auction  *auction

	turnSeconds int
}

// NewGame validates 2-5 names, assigns ids and colours by input order, deals
// every player the same money, and shuffles the 16 card deck. A supplied
// seed makes the shuffle reproducible.
func NewGame(names []string, opts Options) (Game, error) {
	if len(names) < 2 {
		return nil, ErrTooFewPlayers
	}
	if len(names) > len(colours) {
		return nil, ErrTooManyPlayers
	}
	if opts.PlayerIDs != nil && len(opts.PlayerIDs) != len(names) {
		return nil, ErrUnknownPlayer
	}

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	g := &game{
		rnd:         rand.New(rand.NewSource(seed)),
		phase:       PhaseSetup,
		turnSeconds: opts.TurnSeconds,
	}

	for i, name := range names {
		id := playerID(i)
		if opts.PlayerIDs != nil {
			id = opts.PlayerIDs[i]
		}
		p := &player{
			ID:     id,
			Name:   name,
			Colour: colours[i],
		}
		p.deal(dealMoney(p.ID))
		g.players = append(g.players, p)
	}

	g.deck = StatusDeck()
	g.rnd.Shuffle(len(g.deck), func(i, j int) {
		g.deck[i], g.deck[j] = g.deck[j], g.deck[i]
	})

	return g, nil
}

func playerID(i int) string {
	return fmt.Sprintf("p%d", i+1)
}

func (g *game) byID(id string) *player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *game) playerIDs() []string {
	ids := make([]string, len(g.players))
	for i, p := range g.players {
		ids[i] = p.ID
	}
	return ids
}

// StartNewRound draws the top card and opens the matching auction variant.
// In SCORING or FINISHED it does nothing. Drawing the 4th end trigger goes
// straight to SCORING and no auction is made for that card.
func (g *game) StartNewRound() error {
	if g.phase == PhaseScoring || g.phase == PhaseFinished {
		return nil
	}
	if g.auction != nil {
		return ErrWrongPhase
	}

	if len(g.deck) == 0 {
		// 16 cards and 4 triggers make this unreachable
		panic("draw from empty deck")
	}
	card := g.deck[0]
	g.deck = g.deck[1:]
	g.revealed = append(g.revealed, card)

	if card.EndTrigger() {
		g.triggers++
		if g.triggers >= endTriggerLimit {
			g.phase = PhaseScoring
			return nil
		}
	}

	g.auction = newAuction(card, g.playerIDs())
	if g.auction.Variant == VariantReverse {
		g.phase = PhaseReverse
	} else {
		g.phase = PhaseAscending
	}
	return nil
}

func (g *game) liveAuction() (*auction, error) {
	if g.auction == nil || g.auction.Complete {
		return nil, ErrNoAuction
	}
	return g.auction, nil
}

// Bid applies a bid intent for the named player.
func (g *game) Bid(playerID string, moneyCardIDs []string) error {
	a, err := g.liveAuction()
	if err != nil {
		return err
	}
	p := g.byID(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	if err := a.bid(p, moneyCardIDs); err != nil {
		return err
	}
	g.advanceTurn(playerID)
	return nil
}

// Pass applies a pass intent for the named player. It may complete the
// auction; resolution still happens in CompleteAuction.
func (g *game) Pass(playerID string) error {
	a, err := g.liveAuction()
	if err != nil {
		return err
	}
	p := g.byID(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	if err := a.pass(p, g.players); err != nil {
		return err
	}
	if !a.Complete {
		g.advanceTurn(playerID)
	}
	return nil
}

// advanceTurn is the single place that moves the turn pointer: to the next
// player after the actor, wrapping, skipping anyone no longer in the live
// auction's eligible set.
func (g *game) advanceTurn(afterID string) {
	from := g.turn
	for i, p := range g.players {
		if p.ID == afterID {
			from = i
			break
		}
	}
	for step := 1; step <= len(g.players); step++ {
		next := (from + step) % len(g.players)
		if g.auction != nil && !g.auction.Complete && !g.auction.eligible(g.players[next].ID) {
			continue
		}
		g.turn = next
		return
	}
}

// CompleteAuction resolves a completed auction: the winner's wager is
// discarded, the card joins their collection, a faux pas sets the sticky
// discard obligation, and the winner leads the next round. With no auction
// to resolve it is a no-op.
func (g *game) CompleteAuction() (*AuctionOutcome, error) {
	a := g.auction
	if a == nil || !a.Complete {
		return nil, nil
	}

	winner := g.byID(a.Winner)
	if winner == nil {
		return nil, ErrUnknownPlayer
	}

	amount := winner.currentBidAmount()
	winner.discardPlayedMoney()
	winner.addStatusCard(a.Card)
	if a.Card.Kind == KindFauxPas {
		winner.PendingDiscard = true
	}

	for i, p := range g.players {
		if p.ID == winner.ID {
			g.turn = i
		}
	}
	g.auction = nil

	// independent of any unresolved per-player obligation
	if g.triggers >= endTriggerLimit {
		g.phase = PhaseScoring
	}

	return &AuctionOutcome{
		WinnerID:  winner.ID,
		Card:      a.Card,
		BidAmount: amount,
	}, nil
}

// DiscardLuxury settles a faux pas obligation by discarding the named luxury
// card, and the Faux Pas card itself, from the player's own collection.
func (g *game) DiscardLuxury(playerID, cardID string) error {
	p := g.byID(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	if !p.PendingDiscard {
		return ErrNoDiscardDue
	}

	luxury := false
	for _, c := range p.Collection {
		if c.ID == cardID && c.Kind == KindLuxury {
			luxury = true
			break
		}
	}
	if !luxury {
		return ErrInvalidCard
	}

	p.removeStatusCard(cardID)
	p.removeStatusCard("fauxpas")
	p.PendingDiscard = false
	return nil
}

// Rankings computes the final standings. Legal once the phase is SCORING,
// and moves the game to FINISHED.
func (g *game) Rankings() ([]Ranking, error) {
	if g.phase != PhaseScoring && g.phase != PhaseFinished {
		return nil, ErrWrongPhase
	}
	g.phase = PhaseFinished
	return finalRankings(g.players), nil
}

func (g *game) Phase() Phase { return g.phase }

func (g *game) TurnPlayer() string {
	if len(g.players) == 0 {
		return ""
	}
	return g.players[g.turn].ID
}

func (g *game) AuctionDone() bool {
	return g.auction != nil && g.auction.Complete
}

package game

// AuctionVariant tags the two bidding rules. There is no subclassing here:
// bid and pass switch on the tag.
type AuctionVariant string

const (
	// VariantAscending: highest bidder wins, passing drops you out.
	VariantAscending AuctionVariant = "ascending"
	// VariantReverse: first player to decline takes the card, everyone
	// else forfeits their wager.
	VariantReverse AuctionVariant = "reverse"
)

// auction resolves one card. It goes OPEN to COMPLETE exactly once and never
// reopens. The eligible set only shrinks, the high bid only grows.
type auction struct {
	Variant  AuctionVariant `json:"variant"`
	Card     StatusCard     `json:"card"`
	Eligible []string       `json:"eligible"`
	HighBid  int            `json:"highBid"`
	// leader of the ascending bidding, or the forced winner after a
	// reverse pass; empty until someone bids
	Winner   string `json:"winner,omitempty"`
	Complete bool   `json:"complete"`
}

func newAuction(card StatusCard, playerIDs []string) *auction {
	variant := VariantAscending
	if card.Disgrace() {
		variant = VariantReverse
	}
	return &auction{
		Variant:  variant,
		Card:     card,
		Eligible: append([]string{}, playerIDs...),
	}
}

func (a *auction) eligible(id string) bool {
	for _, e := range a.Eligible {
		if e == id {
			return true
		}
	}
	return false
}

// bid commits the named money cards on top of the player's current wager.
// The accept rule is identical in both variants: the new total must strictly
// beat the high bid. A rejected offer leaves the ledger untouched.
func (a *auction) bid(p *player, cardIDs []string) error {
	if a.Complete {
		return ErrNoAuction
	}
	if !a.eligible(p.ID) {
		return ErrNotEligible
	}

	offered, err := p.handValue(cardIDs)
	if err != nil {
		return err
	}
	if p.currentBidAmount()+offered <= a.HighBid {
		return ErrInvalidBid
	}

	// cannot fail now, the offer was just checked against the hand
	_ = p.playMoneyCards(cardIDs)

	a.HighBid = p.currentBidAmount()
	a.Winner = p.ID
	return nil
}

// pass declines. Ascending: the passer leaves the auction with their wager
// back, and the last player standing wins at their current wager, even 0.
// Reverse: the passer is the winner, takes the card, recovers their own
// wager, and every other wager on the table is forfeit.
func (a *auction) pass(p *player, participants []*player) error {
	if a.Complete {
		return ErrNoAuction
	}
	if !a.eligible(p.ID) {
		return ErrNotEligible
	}

	switch a.Variant {
	case VariantAscending:
		for i, e := range a.Eligible {
			if e == p.ID {
				a.Eligible = append(a.Eligible[:i], a.Eligible[i+1:]...)
				break
			}
		}
		p.returnPlayedMoney()

		if len(a.Eligible) == 1 {
			a.Winner = a.Eligible[0]
			for _, q := range participants {
				if q.ID == a.Winner {
					a.HighBid = q.currentBidAmount()
				}
			}
			a.Complete = true
		}
	case VariantReverse:
		a.Winner = p.ID
		p.returnPlayedMoney()
		for _, q := range participants {
			if q.ID != p.ID && len(q.Wager) > 0 {
				q.discardPlayedMoney()
			}
		}
		a.Complete = true
	}
	return nil
}

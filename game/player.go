package game

// player is one participant's ledger. Every money card the player was dealt
// is in exactly one of hand or wager until it is discarded for good.
type player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Colour string `json:"colour"`

	Hand       []MoneyCard  `json:"hand"`
	Wager      []MoneyCard  `json:"wager"`
	Collection []StatusCard `json:"collection"`

	// set when Faux Pas resolves against this player, cleared only by
	// discarding a luxury card from the collection
	PendingDiscard bool `json:"pendingDiscard"`
}

// deal gives the player their money, once, at setup.
func (p *player) deal(cards []MoneyCard) {
	p.Hand = append([]MoneyCard{}, cards...)
}

// handValue sums the named cards, or fails if any is not in hand. A card id
// counts once: repeating an id in the offer is an invalid card, not a double.
func (p *player) handValue(ids []string) (int, error) {
	total := 0
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			return 0, ErrInvalidCard
		}
		seen[id] = true
		found := false
		for _, c := range p.Hand {
			if c.ID == id {
				total += c.Value
				found = true
				break
			}
		}
		if !found {
			return 0, ErrInvalidCard
		}
	}
	return total, nil
}

// playMoneyCards moves the named cards from hand to wager. All or nothing:
// if any id is absent the hand is untouched.
func (p *player) playMoneyCards(ids []string) error {
	if _, err := p.handValue(ids); err != nil {
		return err
	}
	for _, id := range ids {
		for i, c := range p.Hand {
			if c.ID == id {
				p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
				p.Wager = append(p.Wager, c)
				break
			}
		}
	}
	return nil
}

// returnPlayedMoney moves the whole wager pile back to hand, for players who
// are outbid out of an auction or pass in the ascending variant.
func (p *player) returnPlayedMoney() {
	p.Hand = append(p.Hand, p.Wager...)
	p.Wager = nil
}

// discardPlayedMoney removes the wager pile from the game permanently.
func (p *player) discardPlayedMoney() {
	p.Wager = nil
}

func (p *player) addStatusCard(c StatusCard) {
	p.Collection = append(p.Collection, c)
}

func (p *player) removeStatusCard(id string) (StatusCard, bool) {
	for i, c := range p.Collection {
		if c.ID == id {
			p.Collection = append(p.Collection[:i], p.Collection[i+1:]...)
			return c, true
		}
	}
	return StatusCard{}, false
}

// currentBidAmount is the value of the wager pile.
func (p *player) currentBidAmount() int {
	total := 0
	for _, c := range p.Wager {
		total += c.Value
	}
	return total
}

// totalRemainingMoney is hand plus wager, i.e. everything not yet discarded.
func (p *player) totalRemainingMoney() int {
	total := p.currentBidAmount()
	for _, c := range p.Hand {
		total += c.Value
	}
	return total
}

// highestLuxury is the largest luxury value in the collection, 0 if none.
// Used as the last link of the ranking tie-break chain.
func (p *player) highestLuxury() int {
	best := 0
	for _, c := range p.Collection {
		if c.Kind == KindLuxury && c.Value > best {
			best = c.Value
		}
	}
	return best
}

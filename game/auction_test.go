package game

import (
	"testing"
)

func makeTable(n int) []*player {
	out := make([]*player, 0, n)
	for i := 0; i < n; i++ {
		p := &player{ID: playerID(i)}
		p.deal(dealMoney(p.ID))
		out = append(out, p)
	}
	return out
}

func TestAuction_ascendingBidsMustRaise(t *testing.T) {
	ps := makeTable(3)
	a := newAuction(StatusCard{ID: "lux-5", Kind: KindLuxury, Value: 5}, []string{"p1", "p2", "p3"})

	if a.Variant != VariantAscending {
		t.Fatalf("variant: %s", a.Variant)
	}

	if err := a.bid(ps[0], []string{"p1-m3000"}); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if a.HighBid != 3000 || a.Winner != "p1" {
		t.Errorf("high bid %d winner %s", a.HighBid, a.Winner)
	}

	// equal is not enough
	if err := a.bid(ps[1], []string{"p2-m3000"}); err != ErrInvalidBid {
		t.Errorf("expected ErrInvalidBid, got %v", err)
	}
	if len(ps[1].Wager) != 0 {
		t.Errorf("rejected bid moved cards")
	}

	// raising on top of an existing wager counts the whole pile
	if err := a.bid(ps[1], []string{"p2-m4000"}); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := a.bid(ps[0], []string{"p1-m2000"}); err != nil {
		t.Fatalf("raise: %v", err)
	}
	if a.HighBid != 5000 || a.Winner != "p1" {
		t.Errorf("high bid %d winner %s", a.HighBid, a.Winner)
	}
}

func TestAuction_duplicateCardIDsRejected(t *testing.T) {
	ps := makeTable(2)
	a := newAuction(StatusCard{ID: "lux-5", Kind: KindLuxury, Value: 5}, []string{"p1", "p2"})

	_ = a.bid(ps[0], []string{"p1-m10000"})

	// naming a card twice must not count it twice toward the offer
	if err := a.bid(ps[1], []string{"p2-m6000", "p2-m6000"}); err != ErrInvalidCard {
		t.Errorf("expected ErrInvalidCard, got %v", err)
	}
	if a.HighBid != 10000 || a.Winner != "p1" {
		t.Errorf("high bid dropped: %d %s", a.HighBid, a.Winner)
	}
	if len(ps[1].Wager) != 0 || ps[1].totalRemainingMoney() != TotalMoney {
		t.Errorf("rejected bid moved cards")
	}
}

func TestAuction_ascendingPassReturnsWager(t *testing.T) {
	ps := makeTable(3)
	a := newAuction(StatusCard{ID: "lux-5", Kind: KindLuxury, Value: 5}, []string{"p1", "p2", "p3"})

	_ = a.bid(ps[0], []string{"p1-m3000"})
	_ = a.bid(ps[1], []string{"p2-m4000"})

	if err := a.pass(ps[0], ps); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if ps[0].totalRemainingMoney() != TotalMoney || len(ps[0].Wager) != 0 {
		t.Errorf("passer kept wager out")
	}
	if a.Complete {
		t.Errorf("completed too early")
	}

	// a passed player is out for good
	if err := a.bid(ps[0], []string{"p1-m6000"}); err != ErrNotEligible {
		t.Errorf("expected ErrNotEligible, got %v", err)
	}

	if err := a.pass(ps[2], ps); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if !a.Complete || a.Winner != "p2" || a.HighBid != 4000 {
		t.Errorf("bad completion: %v %s %d", a.Complete, a.Winner, a.HighBid)
	}
}

func TestAuction_ascendingAllPassWinsForFree(t *testing.T) {
	ps := makeTable(2)
	a := newAuction(StatusCard{ID: "lux-1", Kind: KindLuxury, Value: 1}, []string{"p1", "p2"})

	if err := a.pass(ps[0], ps); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if !a.Complete || a.Winner != "p2" || a.HighBid != 0 {
		t.Errorf("last player should win at 0: %v %s %d", a.Complete, a.Winner, a.HighBid)
	}
}

func TestAuction_reversePassTakesCard(t *testing.T) {
	ps := makeTable(3)
	a := newAuction(StatusCard{ID: "passe", Kind: KindPasse, Value: -5}, []string{"p1", "p2", "p3"})

	if a.Variant != VariantReverse {
		t.Fatalf("variant: %s", a.Variant)
	}

	_ = a.bid(ps[0], []string{"p1-m3000"})
	_ = a.bid(ps[1], []string{"p2-m4000"})

	if err := a.pass(ps[2], ps); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if !a.Complete || a.Winner != "p3" {
		t.Errorf("passer should take the card: %v %s", a.Complete, a.Winner)
	}
	// the passer keeps everything, the bidders forfeit
	if ps[2].totalRemainingMoney() != TotalMoney {
		t.Errorf("winner paid: %d", ps[2].totalRemainingMoney())
	}
	if ps[0].totalRemainingMoney() != TotalMoney-3000 {
		t.Errorf("p1 kept forfeit wager: %d", ps[0].totalRemainingMoney())
	}
	if ps[1].totalRemainingMoney() != TotalMoney-4000 {
		t.Errorf("p2 kept forfeit wager: %d", ps[1].totalRemainingMoney())
	}
}

func TestAuction_completeIsFinal(t *testing.T) {
	ps := makeTable(2)
	a := newAuction(StatusCard{ID: "lux-1", Kind: KindLuxury, Value: 1}, []string{"p1", "p2"})

	_ = a.pass(ps[0], ps)

	if err := a.bid(ps[1], []string{"p2-m1000"}); err != ErrNoAuction {
		t.Errorf("expected ErrNoAuction, got %v", err)
	}
	if err := a.pass(ps[1], ps); err != ErrNoAuction {
		t.Errorf("expected ErrNoAuction, got %v", err)
	}
}

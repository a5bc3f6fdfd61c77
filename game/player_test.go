package game

import (
	"testing"
)

func makePlayer() *player {
	p := &player{ID: "p1", Name: "ann"}
	p.deal(dealMoney(p.ID))
	return p
}

func TestPlayer_playAllOrNothing(t *testing.T) {
	p := makePlayer()

	err := p.playMoneyCards([]string{"p1-m1000", "no-such-card"})
	if err != ErrInvalidCard {
		t.Errorf("expected ErrInvalidCard, got %v", err)
	}
	if len(p.Hand) != len(Denominations) || len(p.Wager) != 0 {
		t.Errorf("hand touched by rejected play")
	}
}

func TestPlayer_conservation(t *testing.T) {
	p := makePlayer()

	if err := p.playMoneyCards([]string{"p1-m1000", "p1-m25000"}); err != nil {
		t.Fatalf("play: %v", err)
	}
	if p.currentBidAmount() != 26000 {
		t.Errorf("bid: %d", p.currentBidAmount())
	}
	if p.totalRemainingMoney() != TotalMoney {
		t.Errorf("money leaked: %d", p.totalRemainingMoney())
	}

	p.returnPlayedMoney()
	if len(p.Wager) != 0 || p.totalRemainingMoney() != TotalMoney {
		t.Errorf("return broken")
	}

	if err := p.playMoneyCards([]string{"p1-m2000"}); err != nil {
		t.Fatalf("play: %v", err)
	}
	p.discardPlayedMoney()
	if p.totalRemainingMoney() != TotalMoney-2000 {
		t.Errorf("discard broken: %d", p.totalRemainingMoney())
	}
}

func TestPlayer_collection(t *testing.T) {
	p := makePlayer()
	p.addStatusCard(StatusCard{ID: "lux-3", Kind: KindLuxury, Value: 3})
	p.addStatusCard(StatusCard{ID: "lux-9", Kind: KindLuxury, Value: 9})

	if p.highestLuxury() != 9 {
		t.Errorf("highest: %d", p.highestLuxury())
	}

	if _, ok := p.removeStatusCard("lux-3"); !ok {
		t.Errorf("remove failed")
	}
	if _, ok := p.removeStatusCard("lux-3"); ok {
		t.Errorf("removed twice")
	}
	if len(p.Collection) != 1 {
		t.Errorf("collection: %d", len(p.Collection))
	}
}

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lux(v int) StatusCard {
	return StatusCard{ID: "lux", Kind: KindLuxury, Value: v}
}

func TestCalculateStatus(t *testing.T) {
	cases := []struct {
		name  string
		cards []StatusCard
		want  int
	}{
		{"empty", nil, 0},
		{"luxuries", []StatusCard{lux(3), lux(9)}, 12},
		{"passe", []StatusCard{lux(3), {Kind: KindPasse}}, 0},
		{"passe floors at zero", []StatusCard{lux(1), {Kind: KindPasse}}, 0},
		{"prestige doubles", []StatusCard{lux(5), {Kind: KindPrestige}}, 10},
		{"two prestige", []StatusCard{lux(5), {Kind: KindPrestige}, {Kind: KindPrestige}}, 20},
		{"scandale halves", []StatusCard{lux(9), {Kind: KindScandale}}, 4},
		{"prestige after penalty", []StatusCard{{Kind: KindPasse}, {Kind: KindPrestige}}, 0},
		{"fauxpas is inert", []StatusCard{lux(4), {Kind: KindFauxPas}}, 4},
		{
			// the ordering is what makes this 14 and not anything else
			"full chain",
			[]StatusCard{
				lux(3), lux(9), {Kind: KindPasse},
				{Kind: KindPrestige}, {Kind: KindPrestige},
				{Kind: KindScandale},
			},
			14,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CalculateStatus(c.cards))
		})
	}
}

func standingPlayer(id string, money int, cards ...StatusCard) *player {
	p := &player{ID: id, Name: id}
	p.Hand = []MoneyCard{{ID: id + "-m", Value: money}}
	p.Collection = cards
	return p
}

func TestFinalRankings_castOutAtMinimum(t *testing.T) {
	players := []*player{
		standingPlayer("p1", 50000, lux(2)),
		standingPlayer("p2", 30000, lux(10), lux(9)),
		standingPlayer("p3", 30000, lux(8)),
	}

	out := finalRankings(players)

	// both minimum holders are out, however good their status
	assert.True(t, out[1].CastOut)
	assert.True(t, out[2].CastOut)
	assert.False(t, out[0].CastOut)
	assert.Equal(t, "p1", out[0].PlayerID)
	assert.Equal(t, 1, out[0].Rank)

	// cast-out players still rank among themselves
	assert.Equal(t, "p2", out[1].PlayerID)
	assert.Equal(t, 2, out[1].Rank)
	assert.Equal(t, "p3", out[2].PlayerID)
	assert.Equal(t, 3, out[2].Rank)
}

func TestFinalRankings_allAtMinimum(t *testing.T) {
	players := []*player{
		standingPlayer("p1", 10000, lux(5)),
		standingPlayer("p2", 10000, lux(3)),
	}

	out := finalRankings(players)

	for _, r := range out {
		assert.False(t, r.CastOut)
	}
	assert.Equal(t, "p1", out[0].PlayerID)
}

func TestFinalRankings_tieBreakChain(t *testing.T) {
	// equal status, equal money: highest single luxury wins
	players := []*player{
		standingPlayer("p1", 40000, lux(4), lux(6)),
		standingPlayer("p2", 40000, lux(9), lux(1)),
		standingPlayer("p3", 20000),
	}

	out := finalRankings(players)

	assert.Equal(t, "p2", out[0].PlayerID)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, "p1", out[1].PlayerID)
	assert.Equal(t, 2, out[1].Rank)
}

func TestFinalRankings_fullTieSharesRank(t *testing.T) {
	players := []*player{
		standingPlayer("p1", 40000, lux(5)),
		standingPlayer("p2", 40000, lux(5)),
		standingPlayer("p3", 20000),
	}

	out := finalRankings(players)

	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, 1, out[1].Rank)
	assert.Equal(t, 2, out[2].Rank)
	assert.True(t, out[2].CastOut)
}

func TestFinalRankings_moneyCountsWager(t *testing.T) {
	p1 := standingPlayer("p1", 10000, lux(5))
	p1.Wager = []MoneyCard{{ID: "p1-w", Value: 30000}}
	p2 := standingPlayer("p2", 20000, lux(5))

	out := finalRankings([]*player{p1, p2})

	// p1 holds 40000 between hand and wager, p2 is at the minimum
	assert.Equal(t, "p1", out[0].PlayerID)
	assert.False(t, out[0].CastOut)
	assert.Equal(t, 40000, out[0].Money)
	assert.True(t, out[1].CastOut)
}

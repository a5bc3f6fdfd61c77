package game

import "sort"

// Ranking is one row of the final standings. Ranks are 1-based and dense
// across the whole ordering, cast-out players included.
type Ranking struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Status   int    `json:"status"`
	Money    int    `json:"money"`
	CastOut  bool   `json:"castOut"`
}

// CalculateStatus computes a player's final status from their collection.
// The order is load-bearing: sum luxuries and Passé penalties, floor at 0,
// then double once per prestige, then halve once for a scandale, floor at 0.
func CalculateStatus(cards []StatusCard) int {
	sum := 0
	prestige := 0
	scandale := false

	for _, c := range cards {
		switch c.Kind {
		case KindLuxury:
			sum += c.Value
		case KindPasse:
			sum -= 5
		case KindPrestige:
			prestige++
		case KindScandale:
			scandale = true
		case KindFauxPas:
			// no direct contribution
		}
	}

	if sum < 0 {
		sum = 0
	}
	for i := 0; i < prestige; i++ {
		sum *= 2
	}
	if scandale {
		sum /= 2
	}
	if sum < 0 {
		sum = 0
	}
	return sum
}

// standing is the sortable per-player scoring row.
type standing struct {
	player  *player
	status  int
	money   int
	luxury  int
	castOut bool
}

// outranks orders two standings by the tie-break chain: status, remaining
// money, highest single luxury card.
func (s standing) outranks(o standing) bool {
	if s.status != o.status {
		return s.status > o.status
	}
	if s.money != o.money {
		return s.money > o.money
	}
	return s.luxury > o.luxury
}

func (s standing) ties(o standing) bool {
	return s.status == o.status && s.money == o.money && s.luxury == o.luxury
}

// finalRankings casts out everyone holding the minimum remaining money and
// ranks the rest above them, both groups ordered by the same tie-break
// chain. If every player holds the minimum, nobody is cast out.
func finalRankings(players []*player) []Ranking {
	rows := make([]standing, 0, len(players))
	minMoney := 0
	for i, p := range players {
		money := p.totalRemainingMoney()
		if i == 0 || money < minMoney {
			minMoney = money
		}
		rows = append(rows, standing{
			player: p,
			status: CalculateStatus(p.Collection),
			money:  money,
			luxury: p.highestLuxury(),
		})
	}

	atMin := 0
	for i := range rows {
		if rows[i].money == minMoney {
			rows[i].castOut = true
			atMin++
		}
	}
	if atMin == len(rows) {
		// everyone tied at the minimum, nobody is excluded
		for i := range rows {
			rows[i].castOut = false
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].castOut != rows[j].castOut {
			return !rows[i].castOut
		}
		return rows[i].outranks(rows[j])
	})

	out := make([]Ranking, 0, len(rows))
	rank := 0
	for i, row := range rows {
		if i == 0 || row.castOut != rows[i-1].castOut || !row.ties(rows[i-1]) {
			rank++
		}
		out = append(out, Ranking{
			Rank:     rank,
			PlayerID: row.player.ID,
			Name:     row.player.Name,
			Status:   row.status,
			Money:    row.money,
			CastOut:  row.castOut,
		})
	}
	return out
}

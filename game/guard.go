package game

// Authority is the host guard. The engine itself has no idea about hosts;
// this wrapper refuses mutating calls unless the local seat is the host, so
// a refused caller can fall back to sending an intent instead.
type Authority struct {
	game   Game
	hostID string
	selfID string
}

func NewAuthority(g Game, hostID, selfID string) *Authority {
	return &Authority{game: g, hostID: hostID, selfID: selfID}
}

// IsHost reports whether the local seat holds authority.
func (a *Authority) IsHost() bool { return a.selfID == a.hostID }

// SetHost moves authority to another seat, for host migration.
func (a *Authority) SetHost(hostID string) { a.hostID = hostID }

func (a *Authority) guard() error {
	if !a.IsHost() {
		return ErrNotHost
	}
	return nil
}

func (a *Authority) StartNewRound() error {
	if err := a.guard(); err != nil {
		return err
	}
	return a.game.StartNewRound()
}

func (a *Authority) Bid(playerID string, moneyCardIDs []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	return a.game.Bid(playerID, moneyCardIDs)
}

func (a *Authority) Pass(playerID string) error {
	if err := a.guard(); err != nil {
		return err
	}
	return a.game.Pass(playerID)
}

func (a *Authority) CompleteAuction() (*AuctionOutcome, error) {
	if err := a.guard(); err != nil {
		return nil, err
	}
	return a.game.CompleteAuction()
}

func (a *Authority) DiscardLuxury(playerID, cardID string) error {
	if err := a.guard(); err != nil {
		return err
	}
	return a.game.DiscardLuxury(playerID, cardID)
}

func (a *Authority) Rankings() ([]Ranking, error) {
	if err := a.guard(); err != nil {
		return nil, err
	}
	return a.game.Rankings()
}

// read side passes through, any seat may look

func (a *Authority) Phase() Phase       { return a.game.Phase() }
func (a *Authority) TurnPlayer() string { return a.game.TurnPlayer() }
func (a *Authority) AuctionDone() bool  { return a.game.AuctionDone() }
func (a *Authority) Snapshot() Snapshot { return a.game.Snapshot() }

package game

type GameError struct {
	Code string
	Msg  string
}

func (e *GameError) ErrorCode() string { return e.Code }
func (e *GameError) Error() string     { return e.Msg }

var (
	// ErrTooFewPlayers means below the 2 player minimum
	ErrTooFewPlayers = &GameError{"TOOFEWPLAYERS", "need at least 2 players"}
	// ErrTooManyPlayers means above the 5 player maximum
	ErrTooManyPlayers = &GameError{"TOOMANYPLAYERS", "no more than 5 players"}
	// ErrUnknownPlayer means the player id is not part of this game
	ErrUnknownPlayer = &GameError{"UNKNOWNPLAYER", "no such player"}

	// ErrNotEligible means the player is not in the live auction
	ErrNotEligible = &GameError{"NOTELIGIBLE", "player is not in the auction"}
	// ErrInvalidBid means the offer does not beat the current high bid
	ErrInvalidBid = &GameError{"INVALIDBID", "bid does not beat the current high"}
	// ErrInvalidCard means a named card is not where it has to be
	ErrInvalidCard = &GameError{"INVALIDCARD", "card not available"}
	// ErrNoAuction means there is no auction open to act on
	ErrNoAuction = &GameError{"NOAUCTION", "no auction is open"}
	// ErrWrongPhase is for maybe valid actions in the wrong phase
	ErrWrongPhase = &GameError{"WRONGPHASE", "you cannot do that now"}
	// ErrNoDiscardDue means discarding without a faux pas obligation
	ErrNoDiscardDue = &GameError{"NODISCARDDUE", "no discard is owed"}

	// ErrNotHost means a mutating call from a seat that is not the host
	ErrNotHost = &GameError{"NOTHOST", "only the host may do that"}

	// ErrBadSnapshot means a snapshot cannot be restored
	ErrBadSnapshot = &GameError{"BADSNAPSHOT", "snapshot is not consistent"}
)

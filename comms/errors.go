package comms

import (
	"errors"

	"github.com/avanderw/highsociety/game"
)

// CommsError carries an error across the wire with its code intact.
type CommsError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *CommsError) Error() string { return e.Message }

type coded interface {
	ErrorCode() string
}

// WrapError makes an error serializable, keeping the code when there is one.
func WrapError(err error) *CommsError {
	if err == nil {
		return nil
	}
	var c coded
	if errors.As(err, &c) {
		return &CommsError{Code: c.ErrorCode(), Message: err.Error()}
	}
	return &CommsError{Message: err.Error()}
}

// ReError matches wire error codes back to the engine's sentinel errors.
func ReError(cerr *CommsError) error {
	if cerr == nil {
		return nil
	}

	switch cerr.Code {
	case game.ErrNotEligible.Code:
		return game.ErrNotEligible
	case game.ErrInvalidBid.Code:
		return game.ErrInvalidBid
	case game.ErrInvalidCard.Code:
		return game.ErrInvalidCard
	case game.ErrNoAuction.Code:
		return game.ErrNoAuction
	case game.ErrWrongPhase.Code:
		return game.ErrWrongPhase
	case game.ErrNoDiscardDue.Code:
		return game.ErrNoDiscardDue
	case game.ErrNotHost.Code:
		return game.ErrNotHost
	case game.ErrUnknownPlayer.Code:
		return game.ErrUnknownPlayer
	default:
		return errors.New(cerr.Message)
	}
}

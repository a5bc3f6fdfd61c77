// Package comms defines the wire protocol between participants: the message
// envelope, the event taxonomy, and the dedupe machinery receivers use on an
// event channel with no delivery guarantees.
package comms

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avanderw/highsociety/game"
)

// EventType names every message that can cross the channel.
type EventType string

const (
	// room lifecycle
	RoomCreated      EventType = "room-created"
	RoomJoined       EventType = "room-joined"
	PlayerJoined     EventType = "player-joined"
	PlayerLeft       EventType = "player-left"
	GameStarted      EventType = "game-started"
	RestartRequested EventType = "restart-requested"
	RestartReady     EventType = "restart-ready"
	HostChanged      EventType = "host-changed"

	// state sync
	FullState    EventType = "full-state-broadcast"
	StateRequest EventType = "state-request"

	// player intents
	BidPlaced       EventType = "bid-placed"
	Pass            EventType = "pass"
	LuxuryDiscarded EventType = "luxury-discarded"
	TurnTimeout     EventType = "turn-timeout"

	// progression
	AuctionComplete EventType = "auction-complete"
	RoundStarted    EventType = "round-started"
	GameEnded       EventType = "game-ended"

	// errors
	GenericError    EventType = "generic-error"
	ValidationError EventType = "validation-error"
)

// Intent reports whether this type is a player intent the host applies.
func (t EventType) Intent() bool {
	switch t {
	case BidPlaced, Pass, LuxuryDiscarded, TurnTimeout:
		return true
	}
	return false
}

// Stateful reports whether this type carries an authoritative snapshot and
// therefore a host-assigned sequence number.
func (t EventType) Stateful() bool {
	switch t {
	case FullState, RoundStarted, AuctionComplete, GameEnded, GameStarted:
		return true
	}
	return false
}

// Message is the envelope for everything on the channel. Seq is 0 except on
// host state broadcasts, where it is the monotonic per-room sequence number
// receivers use to spot duplicates and gaps.
type Message struct {
	Type   EventType       `json:"type"`
	Room   string          `json:"room"`
	Origin string          `json:"origin"`
	Seq    uint64          `json:"seq,omitempty"`
	Time   int64           `json:"ts"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Key is the idempotency key for the bounded recent-history window.
func (m Message) Key() string {
	return fmt.Sprintf("%s/%d/%s", m.Type, m.Time, m.Origin)
}

// Encode wraps a payload into an envelope, stamping the current time.
func Encode(t EventType, room, origin string, v interface{}) (Message, error) {
	var data json.RawMessage
	if v != nil {
		d, err := json.Marshal(v)
		if err != nil {
			return Message{}, err
		}
		data = d
	}
	return Message{
		Type:   t,
		Room:   room,
		Origin: origin,
		Time:   time.Now().UnixMilli(),
		Data:   data,
	}, nil
}

// Decode unmarshals the payload. A missing payload is a sync error the
// receiver recovers from by requesting a fresh snapshot.
func Decode(m Message, v interface{}) error {
	if m.Data == nil {
		return fmt.Errorf("message %s has no payload", m.Type)
	}
	return json.Unmarshal(m.Data, v)
}

// payloads

type JoinPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	HostID   string `json:"hostId"`
}

type BidPayload struct {
	MoneyCardIDs []string `json:"moneyCardIds"`
	TotalBid     int      `json:"totalBid"`
}

type DiscardPayload struct {
	CardID string `json:"cardId"`
}

type StatePayload struct {
	State game.Snapshot `json:"state"`
}

type RoundStartedPayload struct {
	Card      game.StatusCard `json:"card"`
	Phase     game.Phase      `json:"phase"`
	TurnIndex int             `json:"turnIndex"`
	State     game.Snapshot   `json:"state"`
}

type AuctionCompletePayload struct {
	WinnerID  string          `json:"winnerId"`
	Card      game.StatusCard `json:"card"`
	BidAmount int             `json:"bidAmount"`
	State     game.Snapshot   `json:"state"`
}

type GameEndedPayload struct {
	Rankings []game.Ranking `json:"rankings"`
	State    game.Snapshot  `json:"state"`
}

type HostChangedPayload struct {
	HostID string `json:"hostId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrorPayload struct {
	// PlayerID names the seat whose intent was refused; everyone else
	// receiving the broadcast ignores it
	PlayerID string `json:"playerId"`
	Field    string `json:"field"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message"`
}

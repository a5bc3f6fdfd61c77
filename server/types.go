package server

import (
	"github.com/rs/zerolog"

	"github.com/avanderw/highsociety/comms"
)

// clientBundle is the server's handle on one connected participant.
type clientBundle struct {
	downCh chan comms.Message
}

// seat is one tracked participant of a room. The seat survives a disconnect
// so the same player id can rejoin; client is nil while away.
type seat struct {
	playerID string
	name     string
	client   *clientBundle
}

// room is the relay's view of one match: who sits where, who has authority,
// and the last authoritative snapshot seen, kept so a state-request can be
// answered while the host is briefly unreachable.
type room struct {
	id          string
	seats       map[string]*seat
	order       []string // join order, also the host succession order
	hostID      string
	started     bool
	turnSeconds int
	lastState   *comms.Message
	log         zerolog.Logger
}

// core loop messages

type listRoomsMsg struct {
	Rep chan []RoomInfo
}

type createRoomMsg struct {
	TurnSeconds int
	Rep         chan string
}

type queryRoomMsg struct {
	Room string
	Rep  chan *RoomInfo
}

type deleteRoomMsg struct {
	Room string
	Rep  chan error
}

type connectMsg struct {
	Room     string
	PlayerID string // empty for a fresh join
	Name     string
	Client   clientBundle
	Rep      chan connectResult
}

type connectResult struct {
	PlayerID string
	HostID   string
	Err      error
}

type disconnectMsg struct {
	Room     string
	PlayerID string
	// the leaving connection's channel, so a superseded zombie's late
	// disconnect cannot knock out the seat's replacement
	Down chan comms.Message
}

type eventMsg struct {
	Room string
	From string
	Msg  comms.Message
}

// RoomInfo is the REST surface's view of a room.
type RoomInfo struct {
	ID          string   `json:"id"`
	Players     []string `json:"players"`
	HostID      string   `json:"hostId"`
	Started     bool     `json:"started"`
	TurnSeconds int      `json:"turnSeconds"`
}

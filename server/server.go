// Package server is the relay between participants. It owns no game rules:
// the host seat runs the engine and broadcasts snapshots, the relay fans
// events out to every seat (the origin included, which is why receivers
// suppress their own echo) and keeps just enough room state for
// reconnection and host migration.
package server

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/avanderw/highsociety/comms"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomStarted  = errors.New("room already started")
	ErrBadSeat      = errors.New("unknown seat, clear the saved session")
)

type Server interface {
	Run(ctx context.Context) error
}

func NewServer(cfg Config) Server {
	return &server{
		cfg:    cfg,
		rooms:  map[string]*room{},
		coreCh: make(chan interface{}, 100),
	}
}

type server struct {
	cfg    Config
	rooms  map[string]*room
	coreCh chan interface{}
}

// Run starts the web gateway and then serializes every room mutation
// through this single loop.
func (s *server) Run(ctx context.Context) error {
	log.Info().Msg("server running")
	defer log.Info().Msg("server stopping")

	if err := runWebGateway(s, s.cfg.Addr); err != nil {
		return err
	}

	for {
		select {
		case in := <-s.coreCh:
			s.processMessage(in)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *server) processMessage(in interface{}) {
	switch msg := in.(type) {
	case listRoomsMsg:
		list := []RoomInfo{}
		for _, r := range s.rooms {
			list = append(list, r.info())
		}
		msg.Rep <- list
	case createRoomMsg:
		id := uuid.NewString()
		s.rooms[id] = &room{
			id:          id,
			seats:       map[string]*seat{},
			turnSeconds: msg.TurnSeconds,
			log:         log.With().Str("room", id).Logger(),
		}
		s.rooms[id].log.Info().Msg("room created")
		roomsOpen.Inc()
		msg.Rep <- id
	case queryRoomMsg:
		r, ok := s.rooms[msg.Room]
		if !ok {
			msg.Rep <- nil
			return
		}
		info := r.info()
		msg.Rep <- &info
	case deleteRoomMsg:
		r, ok := s.rooms[msg.Room]
		if !ok {
			msg.Rep <- ErrRoomNotFound
			return
		}
		for _, st := range r.seats {
			if st.client != nil {
				close(st.client.downCh)
			}
		}
		delete(s.rooms, msg.Room)
		roomsOpen.Dec()
		r.log.Info().Msg("room deleted")
		msg.Rep <- nil
	case connectMsg:
		s.handleConnect(msg)
	case disconnectMsg:
		s.handleDisconnect(msg)
	case eventMsg:
		s.handleEvent(msg)
	default:
		log.Warn().Msgf("nonsense in core: %#v", in)
	}
}

func (s *server) handleConnect(msg connectMsg) {
	r, ok := s.rooms[msg.Room]
	if !ok {
		msg.Rep <- connectResult{Err: ErrRoomNotFound}
		return
	}

	if msg.PlayerID != "" {
		// rejoin: only a currently tracked seat may come back
		st, ok := r.seats[msg.PlayerID]
		if !ok {
			reconnectRejected.Inc()
			r.log.Info().Str("player", msg.PlayerID).Msg("rejoin refused")
			msg.Rep <- connectResult{Err: ErrBadSeat}
			return
		}
		if st.client != nil {
			// a zombie connection is superseded, let its writer finish
			close(st.client.downCh)
		}
		st.client = &msg.Client
		reconnectAccepted.Inc()
		r.log.Info().Str("player", st.playerID).Msg("rejoined")
		msg.Rep <- connectResult{PlayerID: st.playerID, HostID: r.hostID}

		r.replayRoster(st.playerID)
		if r.lastState != nil {
			st.client.downCh <- *r.lastState
		}
		return
	}

	if r.started {
		msg.Rep <- connectResult{Err: ErrRoomStarted}
		return
	}

	id := uuid.NewString()
	r.seats[id] = &seat{playerID: id, name: msg.Name, client: &msg.Client}
	r.order = append(r.order, id)
	if r.hostID == "" {
		r.hostID = id
	}
	r.log.Info().Str("player", id).Str("name", msg.Name).Msg("joined")
	msg.Rep <- connectResult{PlayerID: id, HostID: r.hostID}

	r.replayRoster(id)

	join, err := comms.Encode(comms.PlayerJoined, r.id, id, comms.JoinPayload{
		PlayerID: id,
		Name:     msg.Name,
		HostID:   r.hostID,
	})
	if err != nil {
		r.log.Error().Err(err).Msg("encode join")
		return
	}
	r.broadcast(join)
}

func (s *server) handleDisconnect(msg disconnectMsg) {
	r, ok := s.rooms[msg.Room]
	if !ok {
		return
	}
	st, ok := r.seats[msg.PlayerID]
	if !ok {
		return
	}
	if st.client == nil || st.client.downCh != msg.Down {
		// a superseded connection going away, the seat already moved on
		return
	}

	st.client = nil
	r.log.Info().Str("player", msg.PlayerID).Msg("gone")

	left, err := comms.Encode(comms.PlayerLeft, r.id, msg.PlayerID, comms.JoinPayload{
		PlayerID: msg.PlayerID,
		Name:     st.name,
		HostID:   r.hostID,
	})
	if err == nil {
		r.broadcast(left)
	}

	if msg.PlayerID == r.hostID {
		s.migrateHost(r)
	}

	if r.empty() {
		delete(s.rooms, r.id)
		roomsOpen.Dec()
		r.log.Info().Msg("room emptied")
	}
}

// migrateHost hands authority to the first remaining connected seat in join
// order and tells everyone. The new host restores an engine from its own
// projection and re-broadcasts.
func (s *server) migrateHost(r *room) {
	r.hostID = ""
	for _, id := range r.order {
		if st, ok := r.seats[id]; ok && st.client != nil {
			r.hostID = id
			break
		}
	}
	if r.hostID == "" {
		return
	}

	r.log.Info().Str("host", r.hostID).Msg("host migrated")
	msg, err := comms.Encode(comms.HostChanged, r.id, "", comms.HostChangedPayload{HostID: r.hostID})
	if err != nil {
		r.log.Error().Err(err).Msg("encode host change")
		return
	}
	r.broadcast(msg)
}

func (s *server) handleEvent(msg eventMsg) {
	r, ok := s.rooms[msg.Room]
	if !ok {
		return
	}

	m := msg.Msg
	m.Room = r.id
	m.Origin = msg.From

	// authority guard at the relay edge: state only comes from the host
	if m.Type.Stateful() && msg.From != r.hostID {
		r.log.Warn().Str("player", msg.From).Str("type", string(m.Type)).Msg("state from non-host dropped")
		r.sendTo(msg.From, errorMessage(r.id, "NOTHOST", "only the host broadcasts state"))
		return
	}

	switch m.Type {
	case comms.GameStarted:
		r.started = true
		r.lastState = &m
	case comms.FullState, comms.RoundStarted, comms.AuctionComplete, comms.GameEnded:
		r.lastState = &m
	case comms.StateRequest:
		// answer from cache right away, the request still goes to the host
		if r.lastState != nil {
			r.sendTo(msg.From, *r.lastState)
		}
	}

	eventsRelayed.WithLabelValues(string(m.Type)).Inc()
	r.broadcast(m)
}

func errorMessage(roomID, code, text string) comms.Message {
	m, _ := comms.Encode(comms.GenericError, roomID, "", comms.ErrorPayload{Code: code, Message: text})
	return m
}

// gateway entry points

func (s *server) Connect(roomID, playerID, name string, client clientBundle) connectResult {
	rep := make(chan connectResult)
	s.coreCh <- connectMsg{Room: roomID, PlayerID: playerID, Name: name, Client: client, Rep: rep}
	return <-rep
}

func (s *server) ListRooms() []RoomInfo {
	rep := make(chan []RoomInfo)
	s.coreCh <- listRoomsMsg{rep}
	return <-rep
}

func (s *server) CreateRoom(turnSeconds int) string {
	rep := make(chan string)
	s.coreCh <- createRoomMsg{TurnSeconds: turnSeconds, Rep: rep}
	return <-rep
}

func (s *server) QueryRoom(id string) *RoomInfo {
	rep := make(chan *RoomInfo)
	s.coreCh <- queryRoomMsg{Room: id, Rep: rep}
	return <-rep
}

func (s *server) DeleteRoom(id string) error {
	rep := make(chan error)
	s.coreCh <- deleteRoomMsg{Room: id, Rep: rep}
	return <-rep
}

// room helpers

func (r *room) info() RoomInfo {
	players := []string{}
	for _, id := range r.order {
		if st, ok := r.seats[id]; ok {
			players = append(players, st.name)
		}
	}
	return RoomInfo{
		ID:          r.id,
		Players:     players,
		HostID:      r.hostID,
		Started:     r.started,
		TurnSeconds: r.turnSeconds,
	}
}

// replayRoster catches one seat up on everyone already in the room. Each
// replayed join is stamped with that seat's own id so the dedupe keys differ.
func (r *room) replayRoster(to string) {
	for _, prev := range r.order {
		if prev == to {
			continue
		}
		st := r.seats[prev]
		m, err := comms.Encode(comms.PlayerJoined, r.id, st.playerID, comms.JoinPayload{
			PlayerID: st.playerID,
			Name:     st.name,
			HostID:   r.hostID,
		})
		if err == nil {
			r.sendTo(to, m)
		}
	}
}

func (r *room) empty() bool {
	for _, st := range r.seats {
		if st.client != nil {
			return false
		}
	}
	return true
}

// broadcast fans out to every connected seat, the origin included. A
// lagging client just misses the message and catches up via state-request.
func (r *room) broadcast(m comms.Message) {
	for _, st := range r.seats {
		if st.client == nil {
			continue
		}
		select {
		case st.client.downCh <- m:
		default:
			broadcastsDropped.Inc()
			r.log.Info().Str("player", st.playerID).Msg("client lagging")
		}
	}
}

func (r *room) sendTo(playerID string, m comms.Message) {
	st, ok := r.seats[playerID]
	if !ok || st.client == nil {
		return
	}
	select {
	case st.client.downCh <- m:
	default:
		broadcastsDropped.Inc()
	}
}

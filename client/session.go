// Package client is one participant's side of the protocol. A session is
// either the host, owning the authoritative engine behind the guard, or a
// guest holding a projection that is replaced wholesale by every snapshot.
// Intents are never replayed locally, that is how divergence is avoided.
package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/avanderw/highsociety/comms"
	"github.com/avanderw/highsociety/game"
)

// historyWindow bounds the recent-event dedupe window.
const historyWindow = 256

// Ticket is what a participant persists to rejoin after a drop.
type Ticket struct {
	Room   string `json:"room"`
	SelfID string `json:"selfId"`
	Name   string `json:"name"`
	HostID string `json:"hostId"`
}

// Session holds one seat's view of a room. The mutex serializes the read
// pump against the front end, the session is not otherwise concurrent.
type Session struct {
	mu  sync.Mutex
	log zerolog.Logger

	room   string
	selfID string
	name   string
	hostID string

	seqs comms.SeqTracker
	hist *comms.History
	seq  uint64 // as host: last sequence assigned

	auth     *game.Authority // only on the host seat
	proj     *game.Snapshot
	rankings []game.Ranking

	// join-order roster, host succession and (re)starts use it
	seatIDs   []string
	seatNames []string

	restartReady map[string]bool

	// speculative selection, cleared when an own intent is rejected
	selected []string
	pending  bool

	turnSeconds  int
	turnDeadline time.Time

	outCh    chan comms.Message
	updateCh chan string
}

func newSession(log zerolog.Logger, room, selfID, name, hostID string, turnSeconds int) *Session {
	return &Session{
		log:          log,
		room:         room,
		selfID:       selfID,
		name:         name,
		hostID:       hostID,
		hist:         comms.NewHistory(historyWindow),
		restartReady: map[string]bool{},
		turnSeconds:  turnSeconds,
		outCh:        make(chan comms.Message, 100),
		updateCh:     make(chan string, 100),
	}
}

// accessors for the front end

func (s *Session) SelfID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selfID
}

func (s *Session) HostID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hostID
}

func (s *Session) IsHost() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selfID == s.hostID
}

func (s *Session) Projection() *game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proj
}

func (s *Session) Rankings() []game.Ranking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rankings
}

func (s *Session) Updates() <-chan string { return s.updateCh }

// Ticket is the persistable rejoin state.
func (s *Session) Ticket() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{Room: s.room, SelfID: s.selfID, Name: s.name, HostID: s.hostID}
}

func (s *Session) update(format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	select {
	case s.updateCh <- msg:
	default:
	}
}

func (s *Session) send(t comms.EventType, v interface{}) {
	m, err := comms.Encode(t, s.room, s.selfID, v)
	if err != nil {
		s.log.Error().Err(err).Str("type", string(t)).Msg("encode failed")
		return
	}
	s.outCh <- m
}

// broadcastState sends an authoritative snapshot with the next sequence
// number. Host only.
func (s *Session) broadcastState(t comms.EventType, v interface{}) {
	m, err := comms.Encode(t, s.room, s.selfID, v)
	if err != nil {
		s.log.Error().Err(err).Str("type", string(t)).Msg("encode failed")
		return
	}
	s.seq++
	m.Seq = s.seq
	s.outCh <- m
}

// intents and actions

// StartGame is the host bringing the engine up with everyone seated so far,
// then opening round one.
func (s *Session) StartGame(seed *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startGame(seed)
}

func (s *Session) startGame(seed *int64) error {
	if s.selfID != s.hostID {
		return game.ErrNotHost
	}

	g, err := game.NewGame(s.seatNames, game.Options{
		Seed:        seed,
		TurnSeconds: s.turnSeconds,
		PlayerIDs:   s.seatIDs,
	})
	if err != nil {
		return err
	}
	s.auth = game.NewAuthority(g, s.hostID, s.selfID)

	snap := s.auth.Snapshot()
	s.proj = &snap
	s.broadcastState(comms.GameStarted, comms.StatePayload{State: snap})

	return s.hostStartRound()
}

// PlaceBid offers the named money cards. The host applies directly through
// the guard; a guest falls back to sending the intent up.
func (s *Session) PlaceBid(moneyCardIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = append([]string{}, moneyCardIDs...)

	if s.auth != nil && s.auth.IsHost() {
		if err := s.auth.Bid(s.selfID, moneyCardIDs); err != nil {
			s.selected = nil
			return err
		}
		s.selected = nil
		s.afterIntent()
		return nil
	}

	total := 0
	if s.proj != nil {
		for _, p := range s.proj.Players {
			if p.ID != s.selfID {
				continue
			}
			for _, c := range p.Hand {
				for _, id := range moneyCardIDs {
					if c.ID == id {
						total += c.Value
					}
				}
			}
		}
	}
	s.pending = true
	s.send(comms.BidPlaced, comms.BidPayload{MoneyCardIDs: moneyCardIDs, TotalBid: total})
	return nil
}

// PassTurn declines in the live auction.
func (s *Session) PassTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth != nil && s.auth.IsHost() {
		if err := s.auth.Pass(s.selfID); err != nil {
			return err
		}
		s.afterIntent()
		return nil
	}
	s.pending = true
	s.send(comms.Pass, nil)
	return nil
}

// DiscardLuxury settles a faux pas obligation.
func (s *Session) DiscardLuxury(cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth != nil && s.auth.IsHost() {
		if err := s.auth.DiscardLuxury(s.selfID, cardID); err != nil {
			return err
		}
		s.afterIntent()
		return nil
	}
	s.pending = true
	s.send(comms.LuxuryDiscarded, comms.DiscardPayload{CardID: cardID})
	return nil
}

// RequestRestart asks for a rematch; ReadyRestart agrees to one.
func (s *Session) RequestRestart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(comms.RestartRequested, nil)
}

func (s *Session) ReadyRestart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(comms.RestartReady, nil)
}

// RequestState asks the room for a fresh snapshot.
func (s *Session) RequestState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestState()
}

func (s *Session) requestState() { s.send(comms.StateRequest, nil) }

// Tick is the host's turn clock. When a bidding turn outlives the limit the
// host passes for whoever is holding it up.
func (s *Session) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth == nil || !s.auth.IsHost() || s.turnSeconds <= 0 {
		return
	}
	phase := s.auth.Phase()
	if phase != game.PhaseAscending && phase != game.PhaseReverse {
		return
	}
	if s.turnDeadline.IsZero() || now.Before(s.turnDeadline) {
		return
	}

	slow := s.auth.TurnPlayer()
	if err := s.auth.Pass(slow); err != nil {
		s.log.Error().Err(err).Str("player", slow).Msg("timeout pass failed")
		s.turnDeadline = now.Add(time.Duration(s.turnSeconds) * time.Second)
		return
	}
	s.log.Info().Str("player", slow).Msg("turn timed out")
	s.send(comms.TurnTimeout, nil)
	s.afterIntent()
}

func (s *Session) resetTurnClock() {
	if s.turnSeconds <= 0 {
		return
	}
	s.turnDeadline = time.Now().Add(time.Duration(s.turnSeconds) * time.Second)
}

// handle is the receive side. Every message from the channel comes through
// here, the session's single apply point.
func (s *Session) handle(m comms.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hist.Seen(m) {
		return
	}
	if s.selfID != "" && m.Origin == s.selfID {
		// own echo coming back around
		return
	}

	if m.Type.Stateful() {
		switch s.seqs.Observe(m.Seq) {
		case comms.Duplicate:
			return
		case comms.Gap:
			// a full snapshot is the resync vehicle and closes the gap
			// by itself, anything else gets dropped and re-requested
			if m.Type != comms.FullState {
				s.log.Info().Uint64("seq", m.Seq).Uint64("last", s.seqs.Last()).Msg("sequence gap")
				s.requestState()
				return
			}
		}
	}

	switch m.Type {
	case comms.RoomJoined:
		s.handleWelcome(m)
	case comms.PlayerJoined:
		s.handleJoin(m)
	case comms.PlayerLeft:
		s.handleLeave(m)
	case comms.HostChanged:
		s.handleHostChange(m)
	case comms.GameStarted, comms.FullState:
		var p comms.StatePayload
		if err := s.decode(m, &p); err != nil {
			return
		}
		s.applySnapshot(p.State, m.Seq)
	case comms.RoundStarted:
		var p comms.RoundStartedPayload
		if err := s.decode(m, &p); err != nil {
			return
		}
		s.applySnapshot(p.State, m.Seq)
		s.update("round: %s up for auction (%s)", p.Card.Name, p.Phase)
	case comms.AuctionComplete:
		var p comms.AuctionCompletePayload
		if err := s.decode(m, &p); err != nil {
			return
		}
		s.applySnapshot(p.State, m.Seq)
		s.update("%s takes %s for %d", nameOf(p.State, p.WinnerID), p.Card.Name, p.BidAmount)
	case comms.GameEnded:
		var p comms.GameEndedPayload
		if err := s.decode(m, &p); err != nil {
			return
		}
		s.applySnapshot(p.State, m.Seq)
		s.rankings = p.Rankings
		s.update("game over")
	case comms.BidPlaced, comms.Pass, comms.LuxuryDiscarded, comms.TurnTimeout:
		s.handleIntent(m)
	case comms.StateRequest:
		if s.auth != nil && s.auth.IsHost() {
			s.broadcastState(comms.FullState, comms.StatePayload{State: s.auth.Snapshot()})
		}
	case comms.RestartRequested:
		s.update("%s wants a rematch", m.Origin)
	case comms.RestartReady:
		s.handleRestartReady(m)
	case comms.ValidationError, comms.GenericError:
		s.handleError(m)
	}
}

// decode failures are sync errors: don't guess, ask for a fresh snapshot.
func (s *Session) decode(m comms.Message, v interface{}) error {
	if err := comms.Decode(m, v); err != nil {
		s.log.Warn().Err(err).Str("type", string(m.Type)).Msg("bad payload")
		s.requestState()
		return err
	}
	return nil
}

// handleWelcome adopts the identity the relay assigned this connection.
// On a rejoin it is the seat we asked for back.
func (s *Session) handleWelcome(m comms.Message) {
	var p comms.JoinPayload
	if err := comms.Decode(m, &p); err != nil {
		return
	}
	s.selfID = p.PlayerID
	if p.HostID != "" {
		s.hostID = p.HostID
	}
	s.handleJoin(m)
}

func (s *Session) handleJoin(m comms.Message) {
	var p comms.JoinPayload
	if err := comms.Decode(m, &p); err != nil {
		return
	}
	for _, id := range s.seatIDs {
		if id == p.PlayerID {
			return
		}
	}
	s.seatIDs = append(s.seatIDs, p.PlayerID)
	s.seatNames = append(s.seatNames, p.Name)
	if p.HostID != "" {
		s.hostID = p.HostID
	}
	s.update("%s joined", p.Name)
}

func (s *Session) handleLeave(m comms.Message) {
	var p comms.JoinPayload
	if err := comms.Decode(m, &p); err != nil {
		return
	}
	s.update("%s left", p.Name)
}

// handleHostChange is the migration hand-off. A session that finds itself
// promoted restores an authoritative engine from its own projection and
// re-broadcasts, continuing the sequence it last saw.
func (s *Session) handleHostChange(m comms.Message) {
	var p comms.HostChangedPayload
	if err := comms.Decode(m, &p); err != nil {
		return
	}
	s.hostID = p.HostID
	if s.auth != nil {
		s.auth.SetHost(p.HostID)
	}

	if p.HostID != s.selfID {
		s.update("host is now %s", p.HostID)
		return
	}

	s.update("you are the host now")
	if s.proj == nil {
		return
	}
	g, err := game.Restore(*s.proj)
	if err != nil {
		s.log.Error().Err(err).Msg("cannot restore from projection")
		return
	}
	s.auth = game.NewAuthority(g, s.selfID, s.selfID)
	s.seq = s.seqs.Last()
	s.broadcastState(comms.FullState, comms.StatePayload{State: s.auth.Snapshot()})
}

// handleIntent is the host applying a guest's intent. Application order here
// is canonical; stale intents die in the engine's own validation.
func (s *Session) handleIntent(m comms.Message) {
	if s.auth == nil || !s.auth.IsHost() {
		return
	}

	var err error
	switch m.Type {
	case comms.BidPlaced:
		var p comms.BidPayload
		if err := comms.Decode(m, &p); err != nil {
			s.sendValidation(m.Origin, "moneyCardIds", "unreadable bid")
			return
		}
		err = s.auth.Bid(m.Origin, p.MoneyCardIDs)
	case comms.Pass:
		err = s.auth.Pass(m.Origin)
	case comms.LuxuryDiscarded:
		var p comms.DiscardPayload
		if err := comms.Decode(m, &p); err != nil {
			s.sendValidation(m.Origin, "cardId", "unreadable discard")
			return
		}
		err = s.auth.DiscardLuxury(m.Origin, p.CardID)
	case comms.TurnTimeout:
		// advisory timer expired, treat as a pass by whoever is up
		err = s.auth.Pass(s.auth.TurnPlayer())
	}

	if err != nil {
		s.log.Info().Err(err).Str("from", m.Origin).Str("type", string(m.Type)).Msg("intent refused")
		w := comms.WrapError(err)
		s.send(comms.ValidationError, comms.ValidationErrorPayload{
			PlayerID: m.Origin,
			Field:    string(m.Type),
			Code:     w.Code,
			Message:  w.Message,
		})
		return
	}

	s.afterIntent()
}

// afterIntent broadcasts whatever the last applied intent led to: a plain
// snapshot, an auction resolution, or the final rankings.
func (s *Session) afterIntent() {
	if s.auth.AuctionDone() {
		outcome, err := s.auth.CompleteAuction()
		if err != nil {
			s.log.Error().Err(err).Msg("resolve failed")
			return
		}
		snap := s.auth.Snapshot()
		s.proj = &snap
		s.broadcastState(comms.AuctionComplete, comms.AuctionCompletePayload{
			WinnerID:  outcome.WinnerID,
			Card:      outcome.Card,
			BidAmount: outcome.BidAmount,
			State:     snap,
		})

		if s.auth.Phase() == game.PhaseScoring {
			s.hostFinish()
			return
		}
		s.hostStartRound()
		return
	}

	if s.auth.Phase() == game.PhaseScoring {
		s.hostFinish()
		return
	}

	snap := s.auth.Snapshot()
	s.proj = &snap
	s.resetTurnClock()
	s.broadcastState(comms.FullState, comms.StatePayload{State: snap})
}

// hostStartRound draws the next card and announces the round, or finishes
// the game when the draw tripped the end condition.
func (s *Session) hostStartRound() error {
	if err := s.auth.StartNewRound(); err != nil {
		return err
	}

	if s.auth.Phase() == game.PhaseScoring {
		s.hostFinish()
		return nil
	}

	snap := s.auth.Snapshot()
	s.proj = &snap
	var card game.StatusCard
	if snap.Auction != nil {
		card = snap.Auction.Card
	}
	s.resetTurnClock()
	s.broadcastState(comms.RoundStarted, comms.RoundStartedPayload{
		Card:      card,
		Phase:     snap.Phase,
		TurnIndex: snap.Turn,
		State:     snap,
	})
	return nil
}

func (s *Session) hostFinish() {
	rankings, err := s.auth.Rankings()
	if err != nil {
		s.log.Error().Err(err).Msg("rankings failed")
		return
	}
	s.rankings = rankings
	snap := s.auth.Snapshot()
	s.proj = &snap
	s.broadcastState(comms.GameEnded, comms.GameEndedPayload{
		Rankings: rankings,
		State:    snap,
	})
}

func (s *Session) handleRestartReady(m comms.Message) {
	s.restartReady[m.Origin] = true
	if s.auth == nil || !s.auth.IsHost() {
		return
	}
	for _, id := range s.seatIDs {
		if id != s.selfID && !s.restartReady[id] {
			return
		}
	}
	// everyone still seated agreed, same table, fresh shuffle
	s.restartReady = map[string]bool{}
	if err := s.startGame(nil); err != nil {
		s.log.Error().Err(err).Msg("restart failed")
	}
}

// handleError surfaces a rule violation and clears any speculative local
// selection that may have caused it. The host broadcasts validation errors,
// so only the seat the refusal names reacts to one.
func (s *Session) handleError(m comms.Message) {
	switch m.Type {
	case comms.ValidationError:
		var p comms.ValidationErrorPayload
		if err := comms.Decode(m, &p); err != nil {
			return
		}
		if p.PlayerID != s.selfID {
			return
		}
		s.pending = false
		s.selected = nil
		// recover the engine sentinel so the front end sees the real error
		err := comms.ReError(&comms.CommsError{Code: p.Code, Message: p.Message})
		s.update("rejected: %v (%s)", err, p.Field)
	case comms.GenericError:
		var p comms.ErrorPayload
		if err := comms.Decode(m, &p); err != nil {
			return
		}
		s.pending = false
		s.selected = nil
		s.update("error: %s", p.Message)
	}
}

func (s *Session) sendValidation(playerID, field, message string) {
	s.send(comms.ValidationError, comms.ValidationErrorPayload{PlayerID: playerID, Field: field, Message: message})
}

// applySnapshot replaces the local projection wholesale.
func (s *Session) applySnapshot(snap game.Snapshot, seq uint64) {
	s.proj = &snap
	s.pending = false
	s.seqs.Resync(seq)
}

func nameOf(snap game.Snapshot, id string) string {
	for _, p := range snap.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

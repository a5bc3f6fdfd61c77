package comms

import (
	"encoding/json"
	"testing"

	"github.com/avanderw/highsociety/game"
)

func TestEncDec(t *testing.T) {
	m, err := Encode(BidPlaced, "r1", "p1", BidPayload{MoneyCardIDs: []string{"p1-m1000"}, TotalBid: 1000})
	if err != nil {
		t.Errorf("enc error: %v", err)
	}
	if m.Room != "r1" || m.Origin != "p1" || m.Time == 0 {
		t.Errorf("bad envelope: %+v", m)
	}

	// over the wire and back
	data, _ := json.Marshal(m)
	var m2 Message
	if err := json.Unmarshal(data, &m2); err != nil {
		t.Errorf("unmarshal: %v", err)
	}

	var p BidPayload
	if err := Decode(m2, &p); err != nil {
		t.Errorf("dec error: %v", err)
	}
	if p.TotalBid != 1000 || len(p.MoneyCardIDs) != 1 {
		t.Errorf("bad decode: %+v", p)
	}
}

func TestDecode_noPayload(t *testing.T) {
	m, _ := Encode(Pass, "r1", "p1", nil)
	var p BidPayload
	if err := Decode(m, &p); err == nil {
		t.Errorf("decoded nothing")
	}
}

func TestEventType_classes(t *testing.T) {
	if !BidPlaced.Intent() || !TurnTimeout.Intent() {
		t.Errorf("intent class wrong")
	}
	if FullState.Intent() {
		t.Errorf("state is not an intent")
	}
	if !FullState.Stateful() || !GameEnded.Stateful() || !GameStarted.Stateful() {
		t.Errorf("stateful class wrong")
	}
	if BidPlaced.Stateful() || StateRequest.Stateful() {
		t.Errorf("intents and requests carry no seq")
	}
}

func TestMessageKey(t *testing.T) {
	a := Message{Type: Pass, Time: 5, Origin: "p1"}
	b := Message{Type: Pass, Time: 5, Origin: "p2"}
	if a.Key() == b.Key() {
		t.Errorf("keys collide across origins")
	}
	if a.Key() != (Message{Type: Pass, Time: 5, Origin: "p1"}).Key() {
		t.Errorf("key not stable")
	}
}

func TestWrapError(t *testing.T) {
	w := WrapError(game.ErrInvalidBid)
	if w.Code != game.ErrInvalidBid.Code {
		t.Errorf("lost code: %+v", w)
	}
	if err := ReError(w); err != game.ErrInvalidBid {
		t.Errorf("bad reerror: %v", err)
	}

	if WrapError(nil) != nil || ReError(nil) != nil {
		t.Errorf("nil not passed through")
	}

	// unknown codes still carry the message
	err := ReError(&CommsError{Code: "WAT", Message: "something odd"})
	if err == nil || err.Error() != "something odd" {
		t.Errorf("bad fallback: %v", err)
	}
}

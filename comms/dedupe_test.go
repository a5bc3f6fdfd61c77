package comms

import (
	"testing"
)

func TestSeqTracker(t *testing.T) {
	var tr SeqTracker

	if v := tr.Observe(0); v != Fresh {
		t.Errorf("unsequenced: %v", v)
	}
	// first sequenced message may arrive anywhere in the stream
	if v := tr.Observe(5); v != Fresh {
		t.Errorf("first: %v", v)
	}
	if v := tr.Observe(6); v != Fresh {
		t.Errorf("next: %v", v)
	}
	if v := tr.Observe(6); v != Duplicate {
		t.Errorf("replay: %v", v)
	}
	if v := tr.Observe(3); v != Duplicate {
		t.Errorf("old: %v", v)
	}
	if v := tr.Observe(9); v != Gap {
		t.Errorf("gap: %v", v)
	}
	// a gap does not advance
	if tr.Last() != 6 {
		t.Errorf("last: %d", tr.Last())
	}

	tr.Resync(9)
	if tr.Last() != 9 {
		t.Errorf("resync: %d", tr.Last())
	}
	tr.Resync(2)
	if tr.Last() != 9 {
		t.Errorf("resync went backwards: %d", tr.Last())
	}
	if v := tr.Observe(10); v != Fresh {
		t.Errorf("after resync: %v", v)
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(2)

	a := Message{Type: Pass, Time: 1, Origin: "p1"}
	b := Message{Type: Pass, Time: 2, Origin: "p1"}
	c := Message{Type: Pass, Time: 3, Origin: "p1"}

	if h.Seen(a) {
		t.Errorf("a seen before")
	}
	if !h.Seen(a) {
		t.Errorf("a replay missed")
	}

	h.Seen(b)
	h.Seen(c) // evicts a

	if h.Seen(a) {
		t.Errorf("evicted key still tracked")
	}
	if !h.Seen(c) {
		t.Errorf("c evicted too early")
	}
}

package comms

// Verdict is what a receiver should do with an incoming sequence number.
type Verdict int

const (
	// Fresh: apply the message.
	Fresh Verdict = iota
	// Duplicate: already applied, drop it.
	Duplicate
	// Gap: something was missed, request a full snapshot.
	Gap
)

// SeqTracker follows the host-assigned per-room sequence. Unsequenced
// messages (seq 0) are always fresh; the timestamp window below covers them.
type SeqTracker struct {
	last uint64
}

// Last returns the highest sequence applied so far.
func (t *SeqTracker) Last() uint64 { return t.last }

// Observe classifies a sequence number and advances on a fresh one.
func (t *SeqTracker) Observe(seq uint64) Verdict {
	switch {
	case seq == 0:
		return Fresh
	case seq <= t.last:
		return Duplicate
	case t.last == 0 || seq == t.last+1:
		t.last = seq
		return Fresh
	default:
		return Gap
	}
}

// Resync jumps the tracker forward after a full snapshot closed a gap.
func (t *SeqTracker) Resync(seq uint64) {
	if seq > t.last {
		t.last = seq
	}
}

// History is the bounded recent-event window keyed by type+timestamp+origin.
// It is an approximation, not a delivery guarantee: it only has to catch the
// echoes and replays a flaky channel actually produces.
type History struct {
	max  int
	keys []string
	seen map[string]struct{}
}

func NewHistory(max int) *History {
	return &History{max: max, seen: map[string]struct{}{}}
}

// Seen reports whether the message was already observed, recording it if
// not. The oldest key is evicted once the window is full.
func (h *History) Seen(m Message) bool {
	key := m.Key()
	if _, ok := h.seen[key]; ok {
		return true
	}
	h.seen[key] = struct{}{}
	h.keys = append(h.keys, key)
	if len(h.keys) > h.max {
		delete(h.seen, h.keys[0])
		h.keys = h.keys[1:]
	}
	return false
}

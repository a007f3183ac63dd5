package xlator

// Event identifies a graph-wide notification, grounded on
// fuse/fsconnector.go's mount/unmount lifecycle callbacks generalized to
// the original's parent-bound/child-bound/generic taxonomy (spec.md
// §4.4 "notify fan-out").
type Event int

const (
	// EventChildUp/EventChildDown travel upward: a translator tells its
	// parents that the subtree below just became (un)available.
	EventChildUp Event = iota
	EventChildDown

	// EventParentUp/EventParentDown travel downward: used rarely, e.g.
	// graph detach announcing its children should quiesce.
	EventParentUp
	EventParentDown

	// EventChildConnecting/EventTransportCleanup are generic: delivered
	// to every translator in the graph regardless of position.
	EventChildConnecting
	EventTransportCleanup
)

// NotifyFunc observes notifications delivered to a translator.
type NotifyFunc func(this *Translator, event Event, data interface{})

// OnNotify registers fn to observe every Notify delivered to t.
func (t *Translator) OnNotify(fn NotifyFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notifyFns = append(t.notifyFns, fn)
}

// Notify delivers event to t's own observers, then fans it out per the
// event's direction: child-bound/up events propagate to Parents,
// parent-bound/down events propagate to Children, and generic events
// reach every other translator connected to t through parent or child
// edges, each one exactly once. This mirrors default_notify's blanket
// forwarding behavior in the original, generalized from a fixed
// upward-only chain (FUSE has exactly one mountpoint) to fan-out across
// an arbitrary number of parents and children.
func (t *Translator) Notify(event Event, data interface{}) {
	t.mu.Lock()
	fns := append([]NotifyFunc(nil), t.notifyFns...)
	t.mu.Unlock()
	for _, fn := range fns {
		fn(t, event, data)
	}

	switch event {
	case EventChildUp, EventChildDown:
		for _, p := range t.Parents {
			p.Notify(event, data)
		}
	case EventParentUp, EventParentDown:
		for _, c := range t.Children {
			c.Notify(event, data)
		}
	default:
		seen := map[*Translator]bool{t: true}
		queue := append(append([]*Translator(nil), t.Parents...), t.Children...)
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if seen[n] {
				continue
			}
			seen[n] = true
			n.mu.Lock()
			nfns := append([]NotifyFunc(nil), n.notifyFns...)
			n.mu.Unlock()
			for _, fn := range nfns {
				fn(n, event, data)
			}
			queue = append(append(queue, n.Parents...), n.Children...)
		}
	}
}

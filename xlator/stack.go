package xlator

// Frame is one call-stack frame: the STACK_WIND/STACK_UNWIND unit of
// the original. Each FOP call into a child translator winds a new Frame
// whose Parent points back at the frame that issued the call, so a
// callback can find its way back regardless of how many translators it
// passed through.
type Frame struct {
	This   *Translator // the translator that owns this frame
	Parent *Frame
	Local  interface{} // translator-private scratch state for this call
	Cookie interface{} // opaque value threaded from Wind to its Cbk
}

// NewFrame starts a fresh top-of-stack frame, used by a protocol/server
// boundary (or a test) issuing the first call into the graph.
func NewFrame(this *Translator) *Frame {
	return &Frame{This: this}
}

// Wind issues a FOP call into child, the STACK_WIND primitive: it
// builds a new Frame whose Parent is frame and This is child, looks up
// child's implementation of name (falling back to a pass-through
// default if child didn't register one — see defaults.go), and invokes
// it. cookie is threaded through unchanged so the caller's Cbk can
// recover call-site state without a map lookup.
func Wind(frame *Frame, child *Translator, name FopName, args Args, cookie interface{}, cbk CbkFunc) {
	childFrame := &Frame{This: child, Parent: frame, Cookie: cookie}
	fn, ok := child.Fops.Get(name)
	if !ok {
		fn = passThroughFop(name)
	}
	fn(childFrame, child, args, cbk)
}

// Unwind is the STACK_UNWIND_STRICT primitive: it runs this's
// registered callback for name (or a transparent forward if none is
// registered) and hands the result to frame.Parent's caller via cbk.
// Translators that only observe (rather than rewrite) a result call
// Unwind directly from inside their FopFunc's own cbk argument instead
// of reimplementing forwarding; see defaults.go for the common case.
func Unwind(frame *Frame, this *Translator, name FopName, res Result, cbk CbkFunc) {
	if fn, ok := this.Cbks.Get(name); ok {
		fn(frame, this, res)
		return
	}
	cbk(frame, this, res)
}

package observe

// NullEmitter discards every event. It is the default when a Model is
// constructed without an explicit Emitter.
type NullEmitter struct{}

// NewNullEmitter returns an Emitter that discards all events.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

func (n *NullEmitter) Emit(Event) {}

package editor

// EventType identifies session events the surrounding UI listens for.
type EventType int

const (
	EventLayersChanged EventType = iota
	EventSelectionChanged
	EventCanvasResized
	EventHistoryChanged
	EventNotice
	EventSessionReset
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Notice is the payload of EventNotice: a transient user-visible message.
type Notice struct {
	Error   bool
	Message string
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// notice emits a transient informational message.
func (s *Session) notice(msg string) {
	s.Emit(EventNotice, Notice{Message: msg})
}

// errNotice emits a transient error message.
func (s *Session) errNotice(msg string) {
	s.Emit(EventNotice, Notice{Error: true, Message: msg})
}

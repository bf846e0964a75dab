package crop

// Phase is the lifecycle stage of a gesture event.
type Phase uint8

const (
	// Began starts a gesture. Cumulative values restart from identity.
	Began Phase = iota
	// Changed carries an updated cumulative value.
	Changed
	// Ended carries the final cumulative value, which is applied.
	Ended
	// Cancelled aborts the gesture. Its value is ignored and earlier updates
	// are kept.
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (p Phase) finished() bool { return p == Ended || p == Cancelled }

// GestureEvent is a PinchEvent or a PanEvent.
type GestureEvent interface {
	gesturePhase() Phase
}

// PinchEvent reports a two-finger scale gesture.
type PinchEvent struct {
	Phase Phase
	// Scale is the cumulative scale factor since the gesture began.
	Scale float64
	// Focal is the point between the fingers, relative to the window center.
	Focal Point
}

// PanEvent reports a drag gesture.
type PanEvent struct {
	Phase Phase
	// Translation is the cumulative movement since the gesture began.
	Translation Point
}

func (e PinchEvent) gesturePhase() Phase { return e.Phase }
func (e PanEvent) gesturePhase() Phase   { return e.Phase }

// pinchTrack and panTrack remember the last cumulative value of a running
// gesture, so each update applies only its delta and concurrent gestures
// compose. A dropped track ignores the rest of its gesture until the next
// Began.
type pinchTrack struct {
	active  bool
	dropped bool
	scale   float64
}

type panTrack struct {
	active      bool
	dropped     bool
	translation Point
}

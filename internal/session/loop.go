package session

// LoopMode is the remote player's repeat setting.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopTrack
	LoopQueue
)

// Next cycles off → track → queue → off.
func (l LoopMode) Next() LoopMode {
	switch l {
	case LoopOff:
		return LoopTrack
	case LoopTrack:
		return LoopQueue
	default:
		return LoopOff
	}
}

// String returns the wire name of the loop mode.
func (l LoopMode) String() string {
	switch l {
	case LoopTrack:
		return "track"
	case LoopQueue:
		return "queue"
	default:
		return "off"
	}
}

// Icon returns a visual indicator for the loop mode.
func (l LoopMode) Icon() string {
	switch l {
	case LoopTrack:
		return "[loop track]"
	case LoopQueue:
		return "[loop queue]"
	default:
		return ""
	}
}

// ConnStatus is the push stream's connection status as shown to the user.
type ConnStatus int

const (
	Disconnected ConnStatus = iota
	Connecting
	Connected
)

func (c ConnStatus) String() string {
	switch c {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

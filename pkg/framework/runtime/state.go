package runtime

import "fmt"

// State is the lifecycle position of a Node.
type State int32

const (
	// StateUnconfigured means no runtime has been configured.
	StateUnconfigured State = iota
	// StateConfigured means a runtime is published but processing has not started.
	StateConfigured
	// StateRunning means Process does DSP work.
	StateRunning
	// StateStopping means a stop was requested and the real-time side has
	// not yet acknowledged it.
	StateStopping
	// StateStopped means the real-time side acknowledged the stop.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "UNCONFIGURED"
	case StateConfigured:
		return "CONFIGURED"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

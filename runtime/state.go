package runtime

// State is the controller's global lifecycle, distinct from the
// per-device device.State each camera/storage instance carries.
type State int

const (
	Uninit State = iota
	Idle
	Configured
	Armed
	Running
)

func (s State) String() string {
	switch s {
	case Uninit:
		return "uninit"
	case Idle:
		return "idle"
	case Configured:
		return "configured"
	case Armed:
		return "armed"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

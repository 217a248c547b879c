package remote

// ConnState is the remote backend's initialization state. It replaces the
// one-shot ready-promise pattern with an explicit enum: operations gate on
// leaving Connecting, and Failed is terminal for the process lifetime.
type ConnState int32

const (
	// StateConnecting means asynchronous initialization has not finished.
	StateConnecting ConnState = iota
	// StateReady means the remote backend is reachable and serving.
	StateReady
	// StateFailed means initialization failed; all operations are served
	// by the local fallback store.
	StateFailed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

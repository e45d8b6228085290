package domain

// Phase names a lookup state variant.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// Reason classifies a failed lookup.
type Reason string

const (
	ReasonNotFound    Reason = "not_found"
	ReasonFetchFailed Reason = "fetch_failed"
)

// User-facing failure messages.
const (
	MessageNotFound    = "City not found!"
	MessageFetchFailed = "Failed to fetch weather data!"
)

// State is one of Idle, Loading, Success or Failed.
type State interface {
	Phase() Phase
	isState()
}

// Idle is the state before the first submission.
type Idle struct{}

// Loading is the state while a lookup for Query is in flight.
type Loading struct {
	Query string
}

// Success holds the location and snapshot of the last completed lookup.
type Success struct {
	Location Location
	Snapshot Snapshot
}

// Failed holds the banner shown after a lookup that did not produce a snapshot.
type Failed struct {
	Reason  Reason
	Message string
}

func (Idle) Phase() Phase    { return PhaseIdle }
func (Loading) Phase() Phase { return PhaseLoading }
func (Success) Phase() Phase { return PhaseSuccess }
func (Failed) Phase() Phase  { return PhaseFailed }

func (Idle) isState()    {}
func (Loading) isState() {}
func (Success) isState() {}
func (Failed) isState()  {}

// NotFound is the failure for a query with no geocoding results.
func NotFound() Failed {
	return Failed{Reason: ReasonNotFound, Message: MessageNotFound}
}

// FetchFailed is the failure for any transport, status or decode error.
func FetchFailed() Failed {
	return Failed{Reason: ReasonFetchFailed, Message: MessageFetchFailed}
}

// IsLoading reports whether s is the Loading state.
func IsLoading(s State) bool {
	_, ok := s.(Loading)
	return ok
}

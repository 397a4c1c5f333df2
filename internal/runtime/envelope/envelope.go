// Package envelope defines the request/response message unit exchanged over
// a wirelink connection. An Envelope is immutable after construction except
// by the handler that produces a new one in response.
package envelope

// Status codes follow the HTTP convention used on the wire.
const (
	StatusOK      = 200
	StatusTimeout = 408
)

// TimeoutMessage is the status text carried by sweep-synthesized replies for
// pending requests that expired before a reply arrived.
const TimeoutMessage = "Request timeout"

// Envelope is a single message unit.
//
// ID is an opaque identifier unique per outstanding request; the empty
// string is a valid value meaning "unrouted root request". The library never
// generates IDs - callers must set one before using it as a pending-reply
// key (ids.NewUUID is offered as a convenience).
//
// RouteKey is a dot-separated hierarchical path; empty means "deliver to the
// root handler" rather than "no route".
type Envelope struct {
	ID       string
	Status   int
	Message  string
	RouteKey string
	Payload  Payload
	Params   map[string]any
}

// New returns an Envelope with the wire defaults applied: status 200 and an
// empty params map.
func New() *Envelope {
	return &Envelope{
		Status: StatusOK,
		Params: map[string]any{},
	}
}

// NewTimeout builds the synthetic reply delivered to a pending-request
// handler when its registry entry expires unclaimed.
func NewTimeout(id string) *Envelope {
	env := New()
	env.ID = id
	env.Status = StatusTimeout
	env.Message = TimeoutMessage
	return env
}

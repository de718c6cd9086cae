package auth

import "sinemagic_server/structs"

// SessionResult is the outcome of the bootstrap session fetch: either the
// remote answered in time (possibly with no session) or it did not.
type SessionResult struct {
	session  *structs.Session
	timedOut bool
}

func Ready(session *structs.Session) SessionResult {
	return SessionResult{session: session}
}

func TimedOut() SessionResult {
	return SessionResult{timedOut: true}
}

// Session returns the fetched session. ok is false when the fetch timed
// out.
func (r SessionResult) Session() (session *structs.Session, ok bool) {
	return r.session, !r.timedOut
}

func (r SessionResult) IsTimedOut() bool {
	return r.timedOut
}

// AuthSource records where the current identity came from. It is chosen
// once at bootstrap and changed only by sign-in and sign-out.
type AuthSource int

const (
	SourceNone AuthSource = iota
	SourceRemote
	SourceDemoOverride
)

func (s AuthSource) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceDemoOverride:
		return "demo"
	}
	return "none"
}

func (s AuthSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

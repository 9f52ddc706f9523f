package domain

import "time"

// ActorKind distinguishes anonymous guests from logged-in users
type ActorKind string

const (
	ActorGuest ActorKind = "guest"
	ActorUser  ActorKind = "user"
)

// Actor is the identity every cart and order operation runs as. Guests carry
// a locally generated id; users carry the claims decoded from the backend
// bearer token. The token is never verified client-side, only its expiry is
// honored.
type Actor struct {
	Kind        ActorKind
	GuestID     string
	UserID      string
	Email       string
	Name        string
	Role        string
	Token       string
	TokenExpiry time.Time
}

// IsGuest reports whether the actor is an anonymous guest
func (a Actor) IsGuest() bool {
	return a.Kind != ActorUser
}

// IsAdmin is a UI-gating convenience only. Authorization is enforced by the
// backend; this never substitutes for it.
func (a Actor) IsAdmin() bool {
	return a.Kind == ActorUser && a.Role == "admin"
}

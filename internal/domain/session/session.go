// Package session defines the guest session shape consumed read-only by the
// retrieval core. Sessions are issued and signed by an external
// authenticator; the core only reads the tenant id and feature flags.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/guestlane/guestchat/internal/domain/tenant"
)

// GuestSession is the claims payload carried by a signed guest token.
type GuestSession struct {
	ReservationID     string
	TenantID          uuid.UUID
	CheckIn           time.Time
	CheckOut          time.Time
	AccommodationUnit string
	Features          tenant.Features
}

// Package token verifies signed guest session tokens. Tokens are issued by
// the booking platform at check-in time; this side only verifies and reads.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/guestlane/guestchat/internal/domain"
	"github.com/guestlane/guestchat/internal/domain/session"
	"github.com/guestlane/guestchat/internal/domain/tenant"
)

// guestClaims is the claims payload of a guest token.
type guestClaims struct {
	TenantID          string `json:"tenant_id"`
	ReservationID     string `json:"reservation_id"`
	AccommodationUnit string `json:"accommodation_unit"`
	CheckIn           int64  `json:"check_in"`
	CheckOut          int64  `json:"check_out"`
	SharedAccess      bool   `json:"shared_access"`
	PremiumChat       bool   `json:"premium_chat"`
	jwt.RegisteredClaims
}

// Verifier validates HS256-signed guest tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a guest token verifier.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify parses and validates a guest token. Every failure maps to
// domain.ErrSessionInvalid: the caller cannot distinguish a forged token
// from an expired one, and should not.
func (v *Verifier) Verify(tokenString string) (*session.GuestSession, error) {
	claims := &guestClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionInvalid, err)
	}
	if !tok.Valid {
		return nil, domain.ErrSessionInvalid
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad tenant_id claim: %w", domain.ErrSessionInvalid, err)
	}

	return &session.GuestSession{
		ReservationID:     claims.ReservationID,
		TenantID:          tenantID,
		CheckIn:           time.Unix(claims.CheckIn, 0).UTC(),
		CheckOut:          time.Unix(claims.CheckOut, 0).UTC(),
		AccommodationUnit: claims.AccommodationUnit,
		Features: tenant.Features{
			SharedDomainAccess: claims.SharedAccess,
			PremiumChat:        claims.PremiumChat,
		},
	}, nil
}

// Issue signs a guest token. Used by tests and local tooling; production
// tokens come from the booking platform.
func (v *Verifier) Issue(s *session.GuestSession, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := guestClaims{
		TenantID:          s.TenantID.String(),
		ReservationID:     s.ReservationID,
		AccommodationUnit: s.AccommodationUnit,
		CheckIn:           s.CheckIn.Unix(),
		CheckOut:          s.CheckOut.Unix(),
		SharedAccess:      s.Features.SharedDomainAccess,
		PremiumChat:       s.Features.PremiumChat,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

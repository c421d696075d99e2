package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	BusinessUnitID *uuid.UUID
	JTI            string
}

// AccessTokenClaims represents the typed JWT issued to clients.
// Every efficiency query is scoped to OrganizationID.
type AccessTokenClaims struct {
	UserID         uuid.UUID  `json:"user_id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	BusinessUnitID *uuid.UUID `json:"business_unit_id,omitempty"`
	jwt.RegisteredClaims
}

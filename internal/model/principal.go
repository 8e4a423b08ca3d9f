package model

import "github.com/google/uuid"

// Principal is the authenticated caller extracted from the bearer token.
// Authorization decisions live in the upstream admin layer; the engine only
// records the actor on settlement audit fields.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

package domain

import "github.com/google/uuid"

// Requester identifies the authenticated caller of an operation. It is
// supplied by the identity layer upstream and trusted verbatim here.
type Requester struct {
	ID      uuid.UUID
	Email   string
	IsAdmin bool
}

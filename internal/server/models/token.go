package models

import "time"

// Token is a revocation ledger record. A bearer token is live while a
// record with its fingerprint exists.
type Token struct {
	Fingerprint string
	UserID      string
	CreatedAt   time.Time
}

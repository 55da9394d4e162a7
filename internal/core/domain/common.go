package domain

import "time"

// AuditFields holds creation metadata embedded in persisted entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // account ID of the creator; hierarchy edge, not ownership
}

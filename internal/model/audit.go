package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditEntry records one mutation the console dispatched to the admin API.
type AuditEntry struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ActorID    string          `json:"actor_id" db:"actor_id"`
	ActorEmail string          `json:"actor_email" db:"actor_email"`
	Page       string          `json:"page" db:"page"`
	Action     string          `json:"action" db:"action"`
	EntityIDs  []string        `json:"entity_ids" db:"-"`
	Metadata   json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	Outcome    string          `json:"outcome" db:"outcome"`
	Error      string          `json:"error,omitempty" db:"error"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// Audit outcomes
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)

// AuditFilter narrows an audit listing.
type AuditFilter struct {
	ActorID string    `form:"actor_id"`
	Page    string    `form:"page"`
	Action  string    `form:"action"`
	Since   time.Time `form:"since" time_format:"2006-01-02"`
	Limit   int       `form:"limit"`
}

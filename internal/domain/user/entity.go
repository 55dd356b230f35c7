package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an HR reviewer account. Reviewer IDs recorded on ledger rows and
// reports reference this table.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

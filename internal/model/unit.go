package model

import "github.com/google/uuid"

// Unit is a measurement label ("pcs", "g", "ml"). Display only; quantities are
// never converted between units.
type Unit struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Label string    `gorm:"uniqueIndex;not null"`
}

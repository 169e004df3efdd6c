package types

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is a catalog entry. Uniqueness on (name, measurement_unit) is
// not enforced at the database level; the catalog loader dedupes on import.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"not null;index;column:name" json:"name"`
	MeasurementUnit string    `gorm:"not null;column:measurement_unit" json:"measurement_unit"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Ingredient) TableName() string { return "ingredient" }

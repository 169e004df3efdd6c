package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserEvent is an append-only audit row for recipe and membership mutations.
type UserEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	EventType string         `gorm:"not null;index;column:event_type" json:"event_type"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (UserEvent) TableName() string { return "user_event" }

const (
	EventRecipeCreated       = "recipe.created"
	EventRecipeUpdated       = "recipe.updated"
	EventRecipeDeleted       = "recipe.deleted"
	EventFavoriteAdded       = "favorite.added"
	EventFavoriteRemoved     = "favorite.removed"
	EventShoppingCartAdded   = "shopping_cart.added"
	EventShoppingCartRemoved = "shopping_cart.removed"
)

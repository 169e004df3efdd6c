package types

import (
	"time"

	"github.com/google/uuid"
)

// Subscription links a follower to an author. Self-subscription is rejected
// in the service layer; the unique index is the backstop for concurrent
// duplicate follows.
type Subscription struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_subscription_user_author,unique,priority:1" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index:idx_subscription_user_author,unique,priority:2" json:"author_id"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Subscription) TableName() string { return "subscription" }

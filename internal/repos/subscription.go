package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

type SubscriptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, subs []*types.Subscription) ([]*types.Subscription, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error)
	ExistsForAuthors(ctx context.Context, tx *gorm.DB, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Subscription, error)
	DeleteByUserAndAuthor(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (int64, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	repoLog := baseLog.With("repo", "SubscriptionRepo")
	return &subscriptionRepo{db: db, log: repoLog}
}

func (sr *subscriptionRepo) Create(ctx context.Context, tx *gorm.DB, subs []*types.Subscription) ([]*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(subs) == 0 {
		return []*types.Subscription{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (sr *subscriptionRepo) Exists(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *subscriptionRepo) ExistsForAuthors(ctx context.Context, tx *gorm.DB, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	membership := make(map[uuid.UUID]bool, len(authorIDs))
	if userID == uuid.Nil || len(authorIDs) == 0 {
		return membership, nil
	}

	var subs []*types.Subscription
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	for _, sub := range subs {
		membership[sub.AuthorID] = true
	}
	return membership, nil
}

func (sr *subscriptionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Subscription
	if err := transaction.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *subscriptionRepo) DeleteByUserAndAuthor(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&types.Subscription{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

type ShoppingCartRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.ShoppingCart) ([]*types.ShoppingCart, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) (bool, error)
	ExistsForRecipes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	DeleteByUserAndRecipe(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) (int64, error)
}

type shoppingCartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShoppingCartRepo(db *gorm.DB, baseLog *logger.Logger) ShoppingCartRepo {
	repoLog := baseLog.With("repo", "ShoppingCartRepo")
	return &shoppingCartRepo{db: db, log: repoLog}
}

func (scr *shoppingCartRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.ShoppingCart) ([]*types.ShoppingCart, error) {
	transaction := tx
	if transaction == nil {
		transaction = scr.db
	}

	if len(entries) == 0 {
		return []*types.ShoppingCart{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (scr *shoppingCartRepo) Exists(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = scr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (scr *shoppingCartRepo) ExistsForRecipes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = scr.db
	}

	membership := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == uuid.Nil || len(recipeIDs) == 0 {
		return membership, nil
	}

	var entries []*types.ShoppingCart
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, entry := range entries {
		membership[entry.RecipeID] = true
	}
	return membership, nil
}

func (scr *shoppingCartRepo) DeleteByUserAndRecipe(ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = scr.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&types.ShoppingCart{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

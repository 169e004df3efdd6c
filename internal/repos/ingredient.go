package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

type IngredientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error)
	GetAll(ctx context.Context, tx *gorm.DB, namePrefix string) ([]*types.Ingredient, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error)
	GetByNameAndUnit(ctx context.Context, tx *gorm.DB, name, measurementUnit string) (*types.Ingredient, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	repoLog := baseLog.With("repo", "IngredientRepo")
	return &ingredientRepo{db: db, log: repoLog}
}

func (ir *ingredientRepo) Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(ingredients) == 0 {
		return []*types.Ingredient{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetAll lists the catalog, optionally narrowed to names starting with
// namePrefix (case-insensitive, the catalog search box behavior).
func (ir *ingredientRepo) GetAll(ctx context.Context, tx *gorm.DB, namePrefix string) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	query := transaction.WithContext(ctx).Order("name ASC")
	if namePrefix != "" {
		// LOWER+LIKE instead of ILIKE so the sqlite fallback works too.
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}

	var results []*types.Ingredient
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ingredientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient
	if len(ingredientIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ingredientIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ingredientRepo) GetByNameAndUnit(ctx context.Context, tx *gorm.DB, name, measurementUnit string) (*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var result types.Ingredient
	err := transaction.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, measurementUnit).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

type IngredientService interface {
	List(ctx context.Context, namePrefix string) ([]*types.Ingredient, error)
	GetByID(ctx context.Context, ingredientID uuid.UUID) (*types.Ingredient, error)
	LoadCatalog(ctx context.Context, entries []CatalogEntry) (int, error)
}

// CatalogEntry is one row of the importable ingredient catalog.
type CatalogEntry struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type ingredientService struct {
	db             *gorm.DB
	log            *logger.Logger
	ingredientRepo repos.IngredientRepo
}

func NewIngredientService(db *gorm.DB, baseLog *logger.Logger, ingredientRepo repos.IngredientRepo) IngredientService {
	serviceLog := baseLog.With("service", "IngredientService")
	return &ingredientService{db: db, log: serviceLog, ingredientRepo: ingredientRepo}
}

func (is *ingredientService) List(ctx context.Context, namePrefix string) ([]*types.Ingredient, error) {
	ingredients, err := is.ingredientRepo.GetAll(ctx, nil, namePrefix)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

func (is *ingredientService) GetByID(ctx context.Context, ingredientID uuid.UUID) (*types.Ingredient, error) {
	ingredients, err := is.ingredientRepo.GetByIDs(ctx, nil, []uuid.UUID{ingredientID})
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	if len(ingredients) == 0 {
		return nil, apierr.NotFound("ingredient %s not found", ingredientID)
	}
	return ingredients[0], nil
}

// LoadCatalog get-or-creates each entry on (name, measurement_unit) so
// re-running the import never duplicates the catalog. Returns how many rows
// were newly created.
func (is *ingredientService) LoadCatalog(ctx context.Context, entries []CatalogEntry) (int, error) {
	created := 0
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if entry.Name == "" || entry.MeasurementUnit == "" {
				return apierr.Validation(apierr.CodeInvalidRequest, "catalog entry needs name and measurement_unit")
			}
			existing, err := is.ingredientRepo.GetByNameAndUnit(ctx, tx, entry.Name, entry.MeasurementUnit)
			if err != nil {
				return fmt.Errorf("lookup %q (%s): %w", entry.Name, entry.MeasurementUnit, err)
			}
			if existing != nil {
				continue
			}
			ingredient := &types.Ingredient{
				ID:              uuid.New(),
				Name:            entry.Name,
				MeasurementUnit: entry.MeasurementUnit,
			}
			if _, err := is.ingredientRepo.Create(ctx, tx, []*types.Ingredient{ingredient}); err != nil {
				return fmt.Errorf("create %q (%s): %w", entry.Name, entry.MeasurementUnit, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/requestdata"
)

// ShoppingListService builds the consolidated shopping list for everything
// in the caller's cart. Lines group by ingredient name plus measurement
// unit, so the same ingredient across several recipes collapses into one
// line with the amounts summed.
type ShoppingListService interface {
	Generate(ctx context.Context) ([]repos.ShoppingListRow, error)
	Render(rows []repos.ShoppingListRow) string
}

type shoppingListService struct {
	db                   *gorm.DB
	log                  *logger.Logger
	recipeIngredientRepo repos.RecipeIngredientRepo
}

func NewShoppingListService(db *gorm.DB, baseLog *logger.Logger, recipeIngredientRepo repos.RecipeIngredientRepo) ShoppingListService {
	serviceLog := baseLog.With("service", "ShoppingListService")
	return &shoppingListService{db: db, log: serviceLog, recipeIngredientRepo: recipeIngredientRepo}
}

// Generate returns the aggregated rows for the caller's cart. An empty cart
// is an error, there is nothing meaningful to download.
func (sls *shoppingListService) Generate(ctx context.Context) ([]repos.ShoppingListRow, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Forbidden("authentication required")
	}

	rows, err := sls.recipeIngredientRepo.SumForUserCart(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping cart: %w", err)
	}
	if len(rows) == 0 {
		return nil, apierr.Validation(apierr.CodeEmptyCart, "shopping cart is empty")
	}
	return rows, nil
}

// Render formats the aggregated rows as the downloadable plain text file.
func (sls *shoppingListService) Render(rows []repos.ShoppingListRow) string {
	var b strings.Builder
	b.WriteString("Список покупок:\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s - %d %s\n", row.Name, row.Total, row.MeasurementUnit)
	}
	return b.String()
}

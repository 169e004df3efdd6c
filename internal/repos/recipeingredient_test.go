package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/forkfeed/forkfeed-backend/internal/repos/testutil"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

func TestRecipeIngredientRepoReplaceAndRead(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := seedUser(t, tx, "rirepo@example.com")
	recipe := seedRecipe(t, tx, user.ID, "Pancakes")
	flour := seedIngredient(t, tx, "Flour", "g")
	sugar := seedIngredient(t, tx, "Sugar", "g")

	if _, err := repo.Create(ctx, tx, []*types.RecipeIngredient{
		{ID: uuid.New(), RecipeID: recipe.ID, IngredientID: flour.ID, Amount: 200},
		{ID: uuid.New(), RecipeID: recipe.ID, IngredientID: sugar.ID, Amount: 100},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByRecipeIDs(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil {
		t.Fatalf("GetByRecipeIDs: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("GetByRecipeIDs: expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Ingredient == nil {
			t.Fatalf("GetByRecipeIDs: ingredient not preloaded: %+v", row)
		}
	}

	// Replace-all: delete then re-insert yields exactly the new set.
	if err := repo.DeleteByRecipeIDs(ctx, tx, []uuid.UUID{recipe.ID}); err != nil {
		t.Fatalf("DeleteByRecipeIDs: %v", err)
	}
	if _, err := repo.Create(ctx, tx, []*types.RecipeIngredient{
		{ID: uuid.New(), RecipeID: recipe.ID, IngredientID: flour.ID, Amount: 50},
	}); err != nil {
		t.Fatalf("Create (replacement): %v", err)
	}

	rows, err = repo.GetByRecipeIDs(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil {
		t.Fatalf("GetByRecipeIDs (after replace): %v", err)
	}
	if len(rows) != 1 || rows[0].Amount != 50 {
		t.Fatalf("GetByRecipeIDs (after replace): unexpected rows: %+v", rows)
	}
}

func TestRecipeIngredientRepoSumForUserCart(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := seedUser(t, tx, "cartsum@example.com")
	recipeA := seedRecipe(t, tx, user.ID, "Cake")
	recipeB := seedRecipe(t, tx, user.ID, "Bread")
	notInCart := seedRecipe(t, tx, user.ID, "Salad")

	flour := seedIngredient(t, tx, "Flour", "g")
	sugar := seedIngredient(t, tx, "Sugar", "g")
	egg := seedIngredient(t, tx, "Egg", "pcs")
	cucumber := seedIngredient(t, tx, "Cucumber", "pcs")

	if _, err := repo.Create(ctx, tx, []*types.RecipeIngredient{
		{ID: uuid.New(), RecipeID: recipeA.ID, IngredientID: flour.ID, Amount: 200},
		{ID: uuid.New(), RecipeID: recipeA.ID, IngredientID: sugar.ID, Amount: 100},
		{ID: uuid.New(), RecipeID: recipeB.ID, IngredientID: flour.ID, Amount: 300},
		{ID: uuid.New(), RecipeID: recipeB.ID, IngredientID: egg.ID, Amount: 2},
		{ID: uuid.New(), RecipeID: notInCart.ID, IngredientID: cucumber.ID, Amount: 5},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, recipeID := range []uuid.UUID{recipeA.ID, recipeB.ID} {
		entry := &types.ShoppingCart{ID: uuid.New(), UserID: user.ID, RecipeID: recipeID}
		if err := tx.Create(entry).Error; err != nil {
			t.Fatalf("seed cart entry: %v", err)
		}
	}

	rows, err := repo.SumForUserCart(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("SumForUserCart: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("SumForUserCart: expected 3 groups, got %d: %+v", len(rows), rows)
	}

	totals := map[string]int{}
	for _, row := range rows {
		totals[row.Name+"/"+row.MeasurementUnit] = row.Total
	}
	want := map[string]int{
		"Flour/g": 500,
		"Sugar/g": 100,
		"Egg/pcs": 2,
	}
	for key, total := range want {
		if totals[key] != total {
			t.Fatalf("SumForUserCart: %s = %d, want %d", key, totals[key], total)
		}
	}

	// Ingredients of recipes outside the cart never leak into the totals.
	if _, ok := totals["Cucumber/pcs"]; ok {
		t.Fatalf("SumForUserCart: cucumber from non-cart recipe present: %+v", totals)
	}

	// Empty cart resolves to zero rows, the service turns that into an error.
	other := seedUser(t, tx, "emptycart@example.com")
	rows, err = repo.SumForUserCart(ctx, tx, other.ID)
	if err != nil {
		t.Fatalf("SumForUserCart (empty): %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("SumForUserCart (empty): expected no rows, got %+v", rows)
	}
}

func TestRecipeIngredientRepoMergesByNameAndUnit(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := seedUser(t, tx, "mergesum@example.com")
	recipe := seedRecipe(t, tx, user.ID, "Stew")

	// Two distinct catalog rows with identical display text merge into one
	// shopping list line; same name under a different unit stays separate.
	saltA := seedIngredient(t, tx, "Salt", "g")
	saltB := seedIngredient(t, tx, "Salt", "g")
	saltPinch := seedIngredient(t, tx, "Salt", "pinch")

	if _, err := repo.Create(ctx, tx, []*types.RecipeIngredient{
		{ID: uuid.New(), RecipeID: recipe.ID, IngredientID: saltA.ID, Amount: 3},
		{ID: uuid.New(), RecipeID: recipe.ID, IngredientID: saltB.ID, Amount: 4},
		{ID: uuid.New(), RecipeID: recipe.ID, IngredientID: saltPinch.ID, Amount: 1},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	entry := &types.ShoppingCart{ID: uuid.New(), UserID: user.ID, RecipeID: recipe.ID}
	if err := tx.Create(entry).Error; err != nil {
		t.Fatalf("seed cart entry: %v", err)
	}

	rows, err := repo.SumForUserCart(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("SumForUserCart: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("SumForUserCart: expected 2 groups, got %d: %+v", len(rows), rows)
	}
	totals := map[string]int{}
	for _, row := range rows {
		totals[row.Name+"/"+row.MeasurementUnit] = row.Total
	}
	if totals["Salt/g"] != 7 || totals["Salt/pinch"] != 1 {
		t.Fatalf("SumForUserCart: unexpected totals: %+v", totals)
	}
}

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/repos/testutil"
	"github.com/forkfeed/forkfeed-backend/internal/requestdata"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

func TestShoppingListRender(t *testing.T) {
	service := &shoppingListService{}

	rows := []repos.ShoppingListRow{
		{Name: "Flour", MeasurementUnit: "g", Total: 500},
		{Name: "Sugar", MeasurementUnit: "g", Total: 100},
		{Name: "Egg", MeasurementUnit: "pcs", Total: 2},
	}
	got := service.Render(rows)
	want := "Список покупок:\nFlour - 500 g\nSugar - 100 g\nEgg - 2 pcs\n"
	if got != want {
		t.Fatalf("rendered list mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestShoppingListGenerate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	log := testutil.Logger(t)
	service := NewShoppingListService(tx, log, repos.NewRecipeIngredientRepo(tx, log))

	buyer := seedUser(t, tx, "buyer@example.com")
	author := seedUser(t, tx, "author@example.com")
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: buyer.ID})

	// Empty cart refuses to generate.
	if _, err := service.Generate(ctx); err == nil {
		t.Fatalf("expected empty cart error")
	} else if apiErr, ok := apierr.As(err); !ok || apiErr.Code != apierr.CodeEmptyCart {
		t.Fatalf("expected code %q, got %v", apierr.CodeEmptyCart, err)
	}

	flour := seedIngredient(t, tx, "Flour", "g")
	sugar := seedIngredient(t, tx, "Sugar", "g")

	pancakes := seedRecipe(t, tx, author, "Pancakes")
	cake := seedRecipe(t, tx, author, "Cake")
	for _, link := range []*types.RecipeIngredient{
		{ID: uuid.New(), RecipeID: pancakes.ID, IngredientID: flour.ID, Amount: 200},
		{ID: uuid.New(), RecipeID: pancakes.ID, IngredientID: sugar.ID, Amount: 100},
		{ID: uuid.New(), RecipeID: cake.ID, IngredientID: flour.ID, Amount: 300},
	} {
		if err := tx.Create(link).Error; err != nil {
			t.Fatalf("seed recipe ingredient: %v", err)
		}
	}
	for _, entry := range []*types.ShoppingCart{
		{ID: uuid.New(), UserID: buyer.ID, RecipeID: pancakes.ID},
		{ID: uuid.New(), UserID: buyer.ID, RecipeID: cake.ID},
	} {
		if err := tx.Create(entry).Error; err != nil {
			t.Fatalf("seed cart entry: %v", err)
		}
	}

	rows, err := service.Generate(ctx)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.Name+"/"+row.MeasurementUnit] = row.Total
	}
	if totals["Flour/g"] != 500 {
		t.Fatalf("expected flour total 500, got %d", totals["Flour/g"])
	}
	if totals["Sugar/g"] != 100 {
		t.Fatalf("expected sugar total 100, got %d", totals["Sugar/g"])
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 aggregated rows, got %d", len(rows))
	}
}

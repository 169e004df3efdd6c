package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/repos/testutil"
	"github.com/forkfeed/forkfeed-backend/internal/requestdata"
)

func buildMembershipService(t *testing.T, tx *gorm.DB) MembershipService {
	t.Helper()
	log := testutil.Logger(t)
	return NewMembershipService(
		tx,
		log,
		repos.NewRecipeRepo(tx, log),
		repos.NewFavoriteRepo(tx, log),
		repos.NewShoppingCartRepo(tx, log),
		NewEventRecorder(tx, log, repos.NewUserEventRepo(tx, log)),
	)
}

func TestMembershipFavorite(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	service := buildMembershipService(t, tx)

	author := seedUser(t, tx, "fav-author@example.com")
	reader := seedUser(t, tx, "fav-reader@example.com")
	recipe := seedRecipe(t, tx, author, "Borscht")
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: reader.ID})

	view, err := service.AddFavorite(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	if view.ID != recipe.ID || view.Name != recipe.Name {
		t.Fatalf("unexpected minified view: %+v", view)
	}

	// Adding the same pair again is an error, not a no-op.
	if _, err := service.AddFavorite(ctx, recipe.ID); err == nil {
		t.Fatalf("expected error on duplicate add")
	} else if apiErr, ok := apierr.As(err); !ok || apiErr.Code != apierr.CodeAlreadyExists {
		t.Fatalf("expected code %q, got %v", apierr.CodeAlreadyExists, err)
	}

	if err := service.RemoveFavorite(ctx, recipe.ID); err != nil {
		t.Fatalf("remove favorite: %v", err)
	}

	// Removing an absent pair is an error as well.
	if err := service.RemoveFavorite(ctx, recipe.ID); err == nil {
		t.Fatalf("expected error on removing absent pair")
	} else if apiErr, ok := apierr.As(err); !ok || apiErr.Code != apierr.CodeNotFound {
		t.Fatalf("expected code %q, got %v", apierr.CodeNotFound, err)
	}

	// Unknown recipe is a 404 regardless of direction.
	if _, err := service.AddFavorite(ctx, uuid.New()); err == nil {
		t.Fatalf("expected error on unknown recipe")
	} else if apiErr, ok := apierr.As(err); !ok || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestMembershipShoppingCart(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	service := buildMembershipService(t, tx)

	author := seedUser(t, tx, "cart-author@example.com")
	buyer := seedUser(t, tx, "cart-buyer@example.com")
	recipe := seedRecipe(t, tx, author, "Pelmeni")
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: buyer.ID})

	if _, err := service.AddToCart(ctx, recipe.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if _, err := service.AddToCart(ctx, recipe.ID); err == nil {
		t.Fatalf("expected error on duplicate add")
	} else if apiErr, ok := apierr.As(err); !ok || apiErr.Code != apierr.CodeAlreadyExists {
		t.Fatalf("expected code %q, got %v", apierr.CodeAlreadyExists, err)
	}

	if err := service.RemoveFromCart(ctx, recipe.ID); err != nil {
		t.Fatalf("remove from cart: %v", err)
	}
	if err := service.RemoveFromCart(ctx, recipe.ID); err == nil {
		t.Fatalf("expected error on removing absent pair")
	} else if apiErr, ok := apierr.As(err); !ok || apiErr.Code != apierr.CodeNotFound {
		t.Fatalf("expected code %q, got %v", apierr.CodeNotFound, err)
	}

	// The two sets are independent, cart membership never touches favorites.
	if err := service.RemoveFavorite(ctx, recipe.ID); err == nil {
		t.Fatalf("expected favorites to be unaffected by cart operations")
	}
}

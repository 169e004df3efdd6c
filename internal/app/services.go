package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Tag          services.TagService
	Ingredient   services.IngredientService
	Recipe       services.RecipeService
	Membership   services.MembershipService
	ShoppingList services.ShoppingListService
	Subscription services.SubscriptionService
	Media        services.MediaStore
	Events       services.EventRecorder
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	media, err := services.NewLocalMediaStore(log)
	if err != nil {
		return Services{}, fmt.Errorf("init media store: %w", err)
	}
	events := services.NewEventRecorder(db, log, reposet.UserEvent)

	auth := services.NewAuthService(db, log, reposet.User, reposet.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	user := services.NewUserService(db, log, reposet.User, reposet.Subscription, media)
	tag := services.NewTagService(db, log, reposet.Tag)
	ingredient := services.NewIngredientService(db, log, reposet.Ingredient)
	recipe := services.NewRecipeService(
		db, log,
		reposet.Recipe,
		reposet.Ingredient,
		reposet.Tag,
		reposet.RecipeIngredient,
		reposet.RecipeTag,
		reposet.Favorite,
		reposet.ShoppingCart,
		reposet.Subscription,
		media,
		events,
	)
	membership := services.NewMembershipService(db, log, reposet.Recipe, reposet.Favorite, reposet.ShoppingCart, events)
	shoppingList := services.NewShoppingListService(db, log, reposet.RecipeIngredient)
	subscription := services.NewSubscriptionService(db, log, reposet.User, reposet.Recipe, reposet.Subscription)

	return Services{
		Auth:         auth,
		User:         user,
		Tag:          tag,
		Ingredient:   ingredient,
		Recipe:       recipe,
		Membership:   membership,
		ShoppingList: shoppingList,
		Subscription: subscription,
		Media:        media,
		Events:       events,
	}, nil
}

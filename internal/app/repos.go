package app

import (
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
)

type Repos struct {
	User             repos.UserRepo
	UserToken        repos.UserTokenRepo
	Subscription     repos.SubscriptionRepo
	Tag              repos.TagRepo
	Ingredient       repos.IngredientRepo
	Recipe           repos.RecipeRepo
	RecipeIngredient repos.RecipeIngredientRepo
	RecipeTag        repos.RecipeTagRepo
	Favorite         repos.FavoriteRepo
	ShoppingCart     repos.ShoppingCartRepo
	UserEvent        repos.UserEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		UserToken:        repos.NewUserTokenRepo(db, log),
		Subscription:     repos.NewSubscriptionRepo(db, log),
		Tag:              repos.NewTagRepo(db, log),
		Ingredient:       repos.NewIngredientRepo(db, log),
		Recipe:           repos.NewRecipeRepo(db, log),
		RecipeIngredient: repos.NewRecipeIngredientRepo(db, log),
		RecipeTag:        repos.NewRecipeTagRepo(db, log),
		Favorite:         repos.NewFavoriteRepo(db, log),
		ShoppingCart:     repos.NewShoppingCartRepo(db, log),
		UserEvent:        repos.NewUserEventRepo(db, log),
	}
}

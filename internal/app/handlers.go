package app

import (
	"github.com/gin-gonic/gin"

	"github.com/forkfeed/forkfeed-backend/internal/handlers"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/middleware"
	"github.com/forkfeed/forkfeed-backend/internal/server"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Tag          *handlers.TagHandler
	Ingredient   *handlers.IngredientHandler
	Recipe       *handlers.RecipeHandler
	Subscription *handlers.SubscriptionHandler
}

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         handlers.NewAuthHandler(serviceset.Auth),
		User:         handlers.NewUserHandler(serviceset.User),
		Tag:          handlers.NewTagHandler(serviceset.Tag),
		Ingredient:   handlers.NewIngredientHandler(serviceset.Ingredient),
		Recipe:       handlers.NewRecipeHandler(serviceset.Recipe, serviceset.Membership, serviceset.ShoppingList),
		Subscription: handlers.NewSubscriptionHandler(serviceset.Subscription),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, serviceset.Auth),
	}
}

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware, mediaDir string) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:         handlerset.Auth,
		AuthMiddleware:      middlewareset.Auth,
		UserHandler:         handlerset.User,
		TagHandler:          handlerset.Tag,
		IngredientHandler:   handlerset.Ingredient,
		RecipeHandler:       handlerset.Recipe,
		SubscriptionHandler: handlerset.Subscription,
		MediaDir:            mediaDir,
		AllowOrigins:        cfg.AllowOrigins,
	})
}

package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/forkfeed/forkfeed-backend/internal/handlers"
	"github.com/forkfeed/forkfeed-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	UserHandler         *handlers.UserHandler
	TagHandler          *handlers.TagHandler
	IngredientHandler   *handlers.IngredientHandler
	RecipeHandler       *handlers.RecipeHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	MediaDir            string
	AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	router.Static("/media", cfg.MediaDir)

	api := router.Group("/api")

	// Public. OptionalAuth lets membership flags reflect a logged-in caller.
	public := api.Group("/")
	public.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		public.POST("/auth/register", cfg.AuthHandler.Register)
		public.POST("/auth/token/login", cfg.AuthHandler.Login)

		public.GET("/tags", cfg.TagHandler.List)
		public.GET("/tags/:id", cfg.TagHandler.Get)
		public.GET("/ingredients", cfg.IngredientHandler.List)
		public.GET("/ingredients/:id", cfg.IngredientHandler.Get)

		public.GET("/recipes", cfg.RecipeHandler.List)
		public.GET("/recipes/:id", cfg.RecipeHandler.Get)
		public.GET("/recipes/:id/get-link", cfg.RecipeHandler.GetLink)

		public.GET("/users/:id", cfg.UserHandler.GetByID)
	}

	// Protected.
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/auth/token/logout", cfg.AuthHandler.Logout)

		protected.GET("/users/me", cfg.UserHandler.GetMe)
		protected.PUT("/users/me/avatar", cfg.UserHandler.SetAvatar)
		protected.DELETE("/users/me/avatar", cfg.UserHandler.RemoveAvatar)

		protected.POST("/recipes", cfg.RecipeHandler.Create)
		protected.PATCH("/recipes/:id", cfg.RecipeHandler.Update)
		protected.DELETE("/recipes/:id", cfg.RecipeHandler.Delete)

		protected.POST("/recipes/:id/favorite", cfg.RecipeHandler.AddFavorite)
		protected.DELETE("/recipes/:id/favorite", cfg.RecipeHandler.RemoveFavorite)
		protected.POST("/recipes/:id/shopping_cart", cfg.RecipeHandler.AddToCart)
		protected.DELETE("/recipes/:id/shopping_cart", cfg.RecipeHandler.RemoveFromCart)
		protected.GET("/recipes/download_shopping_cart", cfg.RecipeHandler.DownloadShoppingCart)

		protected.GET("/users/subscriptions", cfg.SubscriptionHandler.List)
		protected.POST("/users/:id/subscribe", cfg.SubscriptionHandler.Subscribe)
		protected.DELETE("/users/:id/subscribe", cfg.SubscriptionHandler.Unsubscribe)
	}

	return router
}

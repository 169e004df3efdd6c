package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/requestdata"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, authorID uuid.UUID, recipesLimit int) (*SubscriptionView, error)
	Unsubscribe(ctx context.Context, authorID uuid.UUID) error
	List(ctx context.Context, recipesLimit int) ([]*SubscriptionView, error)
}

type subscriptionService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	recipeRepo       repos.RecipeRepo
	subscriptionRepo repos.SubscriptionRepo
}

func NewSubscriptionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	recipeRepo repos.RecipeRepo,
	subscriptionRepo repos.SubscriptionRepo,
) SubscriptionService {
	serviceLog := baseLog.With("service", "SubscriptionService")
	return &subscriptionService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		recipeRepo:       recipeRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (ss *subscriptionService) Subscribe(ctx context.Context, authorID uuid.UUID, recipesLimit int) (*SubscriptionView, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Forbidden("authentication required")
	}
	if userID == authorID {
		return nil, apierr.Validation(apierr.CodeSelfSubscription, "cannot subscribe to yourself")
	}

	authors, err := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{authorID})
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}
	if len(authors) == 0 {
		return nil, apierr.NotFound("user %s not found", authorID)
	}
	author := authors[0]

	present, err := ss.subscriptionRepo.Exists(ctx, nil, userID, authorID)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if present {
		return nil, apierr.AlreadyExists("already subscribed to this author")
	}

	sub := &types.Subscription{ID: uuid.New(), UserID: userID, AuthorID: authorID}
	if _, err := ss.subscriptionRepo.Create(ctx, nil, []*types.Subscription{sub}); err != nil {
		if isUniqueViolation(err) {
			return nil, apierr.AlreadyExists("already subscribed to this author")
		}
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	views, err := ss.buildViews(ctx, []*types.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (ss *subscriptionService) Unsubscribe(ctx context.Context, authorID uuid.UUID) error {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return apierr.Forbidden("authentication required")
	}

	authors, err := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{authorID})
	if err != nil {
		return fmt.Errorf("load author: %w", err)
	}
	if len(authors) == 0 {
		return apierr.NotFound("user %s not found", authorID)
	}

	removed, err := ss.subscriptionRepo.DeleteByUserAndAuthor(ctx, nil, userID, authorID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if removed == 0 {
		return apierr.Validation(apierr.CodeNotFound, "not subscribed to this author")
	}
	return nil
}

func (ss *subscriptionService) List(ctx context.Context, recipesLimit int) ([]*SubscriptionView, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Forbidden("authentication required")
	}

	subs, err := ss.subscriptionRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	authors := make([]*types.User, 0, len(subs))
	for _, sub := range subs {
		if sub.Author != nil {
			authors = append(authors, sub.Author)
		}
	}
	return ss.buildViews(ctx, authors, recipesLimit)
}

// buildViews assembles author cards with their recent recipes and total
// recipe counts. The two author-wide loads are independent, so they run
// concurrently.
func (ss *subscriptionService) buildViews(ctx context.Context, authors []*types.User, recipesLimit int) ([]*SubscriptionView, error) {
	authorIDs := make([]uuid.UUID, 0, len(authors))
	for _, author := range authors {
		authorIDs = append(authorIDs, author.ID)
	}

	var (
		recipes []*types.Recipe
		counts  map[uuid.UUID]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recipes, err = ss.recipeRepo.GetByAuthorIDs(gctx, nil, authorIDs, 0)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = ss.recipeRepo.CountByAuthorIDs(gctx, nil, authorIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load author recipes: %w", err)
	}

	recipesByAuthor := make(map[uuid.UUID][]*RecipeMinifiedView, len(authors))
	for _, recipe := range recipes {
		if recipesLimit > 0 && len(recipesByAuthor[recipe.AuthorID]) >= recipesLimit {
			continue
		}
		recipesByAuthor[recipe.AuthorID] = append(recipesByAuthor[recipe.AuthorID], NewRecipeMinifiedView(recipe))
	}

	views := make([]*SubscriptionView, 0, len(authors))
	for _, author := range authors {
		authorRecipes := recipesByAuthor[author.ID]
		if authorRecipes == nil {
			authorRecipes = []*RecipeMinifiedView{}
		}
		views = append(views, &SubscriptionView{
			UserView:     *NewUserView(author, true),
			Recipes:      authorRecipes,
			RecipesCount: counts[author.ID],
		})
	}
	return views, nil
}

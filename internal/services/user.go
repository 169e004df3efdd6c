package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/requestdata"
)

type UserService interface {
	GetMe(ctx context.Context) (*UserView, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*UserView, error)
	SetAvatar(ctx context.Context, imageData string) (string, error)
	RemoveAvatar(ctx context.Context) error
}

type userService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	subscriptionRepo repos.SubscriptionRepo
	media            MediaStore
}

func NewUserService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	subscriptionRepo repos.SubscriptionRepo,
	media MediaStore,
) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		media:            media,
	}
}

func (us *userService) GetMe(ctx context.Context) (*UserView, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Forbidden("authentication required")
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user %s not found", userID)
	}
	return NewUserView(users[0], false), nil
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	callerID := requestdata.UserID(ctx)

	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user %s not found", userID)
	}

	subscribed, err := us.subscriptionRepo.ExistsForAuthors(ctx, nil, callerID, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	return NewUserView(users[0], subscribed[userID]), nil
}

func (us *userService) SetAvatar(ctx context.Context, imageData string) (string, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return "", apierr.Forbidden("authentication required")
	}
	if imageData == "" {
		return "", apierr.Validation(apierr.CodeMissingField, "avatar field is required")
	}

	path, err := us.media.SaveBase64Image(imageData)
	if err != nil {
		return "", err
	}
	if err := us.userRepo.UpdateAvatarURL(ctx, nil, userID, path); err != nil {
		return "", fmt.Errorf("update avatar: %w", err)
	}
	return path, nil
}

func (us *userService) RemoveAvatar(ctx context.Context) error {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return apierr.Forbidden("authentication required")
	}
	if err := us.userRepo.UpdateAvatarURL(ctx, nil, userID, ""); err != nil {
		return fmt.Errorf("clear avatar: %w", err)
	}
	return nil
}

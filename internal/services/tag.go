package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

type TagService interface {
	List(ctx context.Context) ([]*types.Tag, error)
	GetByID(ctx context.Context, tagID uuid.UUID) (*types.Tag, error)
}

type tagService struct {
	db      *gorm.DB
	log     *logger.Logger
	tagRepo repos.TagRepo
}

func NewTagService(db *gorm.DB, baseLog *logger.Logger, tagRepo repos.TagRepo) TagService {
	serviceLog := baseLog.With("service", "TagService")
	return &tagService{db: db, log: serviceLog, tagRepo: tagRepo}
}

func (ts *tagService) List(ctx context.Context) ([]*types.Tag, error) {
	tags, err := ts.tagRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (ts *tagService) GetByID(ctx context.Context, tagID uuid.UUID) (*types.Tag, error) {
	tags, err := ts.tagRepo.GetByIDs(ctx, nil, []uuid.UUID{tagID})
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	if len(tags) == 0 {
		return nil, apierr.NotFound("tag %s not found", tagID)
	}
	return tags[0], nil
}

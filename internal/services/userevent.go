package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

// EventRecorder appends audit rows for recipe and membership mutations.
// Recording is best-effort and runs after the primary transaction commits; a
// failed audit write never fails the user-facing operation.
type EventRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]any)
}

type eventRecorder struct {
	db            *gorm.DB
	log           *logger.Logger
	userEventRepo repos.UserEventRepo
}

func NewEventRecorder(db *gorm.DB, baseLog *logger.Logger, userEventRepo repos.UserEventRepo) EventRecorder {
	recorderLog := baseLog.With("service", "EventRecorder")
	return &eventRecorder{db: db, log: recorderLog, userEventRepo: userEventRepo}
}

func (er *eventRecorder) Record(ctx context.Context, userID uuid.UUID, eventType string, payload map[string]any) {
	if userID == uuid.Nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		er.log.Warn("Failed to marshal event payload", "event_type", eventType, "error", err)
		return
	}
	event := &types.UserEvent{
		ID:        uuid.New(),
		UserID:    userID,
		EventType: eventType,
		Payload:   datatypes.JSON(raw),
	}
	if _, err := er.userEventRepo.Create(ctx, nil, []*types.UserEvent{event}); err != nil {
		er.log.Warn("Failed to record user event", "event_type", eventType, "error", err)
	}
}

// Package service contains the business layer between the HTTP handlers and
// the store, and the broker publisher for change notifications.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/db"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/db/repository"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/metrics"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/models"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/pkg/logger"
)

// Store operation names used as metric labels.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpDelete = "delete"
)

// BlockedAppService manages blocked apps and announces changes.
type BlockedAppService struct {
	repo      repository.BlockedAppRepository
	publisher ChangePublisher
	metrics   metrics.Recorder
}

// NewBlockedAppService creates a BlockedAppService. A nil publisher or
// recorder is replaced with a no-op.
func NewBlockedAppService(repo repository.BlockedAppRepository, publisher ChangePublisher, recorder metrics.Recorder) *BlockedAppService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &BlockedAppService{repo: repo, publisher: publisher, metrics: recorder}
}

// List returns all blocked apps ordered by id.
func (s *BlockedAppService) List(ctx context.Context) ([]*models.BlockedApp, error) {
	apps, err := s.repo.ListBlockedApps(ctx)
	s.record(OpList, err)
	return apps, err
}

// Get returns the blocked app with id or an error matching db.ErrNotFound.
func (s *BlockedAppService) Get(ctx context.Context, id int64) (*models.BlockedApp, error) {
	app, err := s.repo.GetBlockedApp(ctx, id)
	s.record(OpGet, err)
	return app, err
}

// Create stores a new blocked app and publishes a created event.
func (s *BlockedAppService) Create(ctx context.Context, in models.NewBlockedApp) (*models.BlockedApp, error) {
	app, err := s.repo.CreateBlockedApp(ctx, in)
	s.record(OpCreate, err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.NewBlockedAppEvent(models.EventBlockedAppCreated, app.ID, app))
	return app, nil
}

// Delete removes the blocked app with id. It returns db.ErrNotFound when no
// row was removed, including when a concurrent delete won.
func (s *BlockedAppService) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.DeleteBlockedApp(ctx, id)
	if err == nil && !removed {
		err = db.ErrNotFound
	}
	s.record(OpDelete, err)
	if err != nil {
		return err
	}

	s.publish(ctx, models.NewBlockedAppEvent(models.EventBlockedAppDeleted, id, nil))
	return nil
}

// Ping checks store connectivity.
func (s *BlockedAppService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *BlockedAppService) record(op string, err error) {
	switch {
	case err == nil:
		s.metrics.RecordStoreOperation(op, metrics.OutcomeSuccess)
	case errors.Is(err, db.ErrNotFound):
		s.metrics.RecordStoreOperation(op, metrics.OutcomeNotFound)
	default:
		s.metrics.RecordStoreOperation(op, metrics.OutcomeError)
	}
}

// publish is best effort. The change is already committed, so a broker
// failure is logged and never surfaced to the caller.
func (s *BlockedAppService) publish(ctx context.Context, event *models.BlockedAppEvent) {
	err := s.publisher.Publish(context.WithoutCancel(ctx), event)
	s.metrics.RecordEventPublish(event.Type, err)
	if err != nil {
		logger.Log.Error("Failed to publish blocked app event",
			zap.String("eventId", event.EventID.String()),
			zap.String("type", event.Type),
			zap.Int64("blockedAppId", event.BlockedAppID),
			zap.Error(err),
		)
	}
}

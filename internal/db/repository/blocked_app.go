package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/db"
	"github.com/Rozana-IM/Focusbubble-FrontBackend/internal/models"
)

// BlockedAppRepository defines operations for managing blocked apps.
type BlockedAppRepository interface {
	ListBlockedApps(ctx context.Context) ([]*models.BlockedApp, error)
	GetBlockedApp(ctx context.Context, id int64) (*models.BlockedApp, error)
	CreateBlockedApp(ctx context.Context, app models.NewBlockedApp) (*models.BlockedApp, error)
	DeleteBlockedApp(ctx context.Context, id int64) (bool, error)
	Ping(ctx context.Context) error
}

type blockedAppRepository struct {
	pool *pgxpool.Pool
}

// NewBlockedAppRepository creates a new BlockedAppRepository.
func NewBlockedAppRepository(pool *pgxpool.Pool) BlockedAppRepository {
	return &blockedAppRepository{pool: pool}
}

const blockedAppColumns = `id, package_name, app_name, duration_minutes, is_active`

func scanBlockedApp(row pgx.Row) (*models.BlockedApp, error) {
	var app models.BlockedApp
	err := row.Scan(
		&app.ID,
		&app.PackageName,
		&app.AppName,
		&app.DurationMinutes,
		&app.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListBlockedApps returns every blocked app in insertion order.
func (r *blockedAppRepository) ListBlockedApps(ctx context.Context) ([]*models.BlockedApp, error) {
	query := `SELECT ` + blockedAppColumns + ` FROM blocked_apps ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list blocked apps")
	}
	defer rows.Close()

	apps := make([]*models.BlockedApp, 0)
	for rows.Next() {
		app, err := scanBlockedApp(rows)
		if err != nil {
			return nil, db.WrapError(err, "scan blocked app")
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate blocked apps")
	}

	return apps, nil
}

// GetBlockedApp retrieves a single blocked app, or db.ErrNotFound.
func (r *blockedAppRepository) GetBlockedApp(ctx context.Context, id int64) (*models.BlockedApp, error) {
	query := `SELECT ` + blockedAppColumns + ` FROM blocked_apps WHERE id = $1`

	app, err := scanBlockedApp(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, db.WrapError(err, "get blocked app")
	}

	return app, nil
}

// CreateBlockedApp inserts a row and returns it with the assigned ID.
func (r *blockedAppRepository) CreateBlockedApp(ctx context.Context, app models.NewBlockedApp) (*models.BlockedApp, error) {
	query := `
		INSERT INTO blocked_apps (package_name, app_name, duration_minutes, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + blockedAppColumns

	created, err := scanBlockedApp(r.pool.QueryRow(ctx, query,
		app.PackageName,
		app.AppName,
		app.DurationMinutes,
		app.Active(),
	))
	if err != nil {
		return nil, db.WrapError(err, "create blocked app")
	}

	return created, nil
}

// DeleteBlockedApp removes the row with the given ID and reports whether one
// existed. The single conditional DELETE keeps concurrent deletes from both
// reporting success.
func (r *blockedAppRepository) DeleteBlockedApp(ctx context.Context, id int64) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM blocked_apps WHERE id = $1`, id)
	if err != nil {
		return false, db.WrapError(err, "delete blocked app")
	}

	return result.RowsAffected() > 0, nil
}

// Ping checks the database connection health.
func (r *blockedAppRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

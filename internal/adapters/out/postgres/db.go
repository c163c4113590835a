package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderapi/internal/adapters/out/postgres/migrations"

	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// Open connects to PostgreSQL and applies pending migrations. Driver errors
// such as unique violations are translated to gorm sentinel errors, which the
// repositories rely on.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: gorm_logger.New(slog.NewLogLogger(logger.With("component", "gorm").Handler(), slog.LevelWarn), gorm_logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gorm_logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = migrations.Up(ctx, sqlDB); err != nil {
		return nil, err
	}

	return db, nil
}

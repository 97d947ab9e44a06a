package migration

import (
	"context"
	"time"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/xcontext"
)

// Migration records an applied schema version.
type Migration struct {
	Version   int `gorm:"primaryKey"`
	AppliedAt time.Time
}

// migrators run in order. Never reorder or remove entries, only append.
var migrators = []func(ctx context.Context) error{
	migrateTables,
}

func Migrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if err := db.AutoMigrate(&Migration{}); err != nil {
		return err
	}

	applied := 0
	var records []Migration
	if err := db.Find(&records).Error; err != nil {
		return err
	}

	for _, record := range records {
		if record.Version > applied {
			applied = record.Version
		}
	}

	for i := applied; i < len(migrators); i++ {
		xcontext.Logger(ctx).Infof("Applying migration %d", i+1)
		if err := migrators[i](ctx); err != nil {
			return err
		}

		record := Migration{Version: i + 1, AppliedAt: time.Now()}
		if err := db.Create(&record).Error; err != nil {
			return err
		}
	}

	return nil
}

func migrateTables(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}

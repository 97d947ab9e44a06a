package entity

import (
	"context"

	"github.com/openfeed-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Post{},
		&Follow{},
		&Like{},
		&Share{},
		&Comment{},
		&File{},
	)
}

package domain

import (
	"context"

	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/xcontext"
)

const (
	timelinePageSize   = 10
	profileTabPageSize = 6
	followListPageSize = 5
)

// checkPage normalizes a 1-indexed page number. Zero means the first page.
func checkPage(page int) (int, error) {
	if page == 0 {
		return 1, nil
	}

	if page < 1 {
		return 0, errorx.New(errorx.BadRequest, "Invalid page number %d", page)
	}

	return page, nil
}

// checkLimit applies the configured default and maximum to a client-provided
// page size.
func checkLimit(ctx context.Context, limit int) (int, error) {
	cfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		return cfg.DefaultLimit, nil
	}

	if limit < 0 {
		return 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > cfg.MaxLimit {
		return 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", cfg.MaxLimit)
	}

	return limit, nil
}

func pageMeta(page, perPage int, total int64) model.PageMeta {
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	return model.PageMeta{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
}

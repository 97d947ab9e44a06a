package client

import (
	"context"

	"github.com/openfeed-lab/backend/internal/domain/search"
)

// SearchCaller hides the search index behind an interface so repositories do
// not depend on bleve directly and tests can mock it out.
type SearchCaller interface {
	IndexUser(ctx context.Context, id string, data search.UserData) error
	IndexPost(ctx context.Context, id string, data search.PostData) error
	DeleteUser(ctx context.Context, id string) error
	DeletePost(ctx context.Context, id string) error
	SearchUser(ctx context.Context, query string, offset, limit int) ([]string, error)
	SearchPost(ctx context.Context, query string, offset, limit int) ([]string, error)
}

type searchCaller struct {
	index search.Index
}

func NewSearchCaller(index search.Index) *searchCaller {
	return &searchCaller{index: index}
}

func (c *searchCaller) IndexUser(ctx context.Context, id string, data search.UserData) error {
	return c.index.Index(search.UserDoc, id, data)
}

func (c *searchCaller) IndexPost(ctx context.Context, id string, data search.PostData) error {
	return c.index.Index(search.PostDoc, id, data)
}

func (c *searchCaller) DeleteUser(ctx context.Context, id string) error {
	return c.index.Delete(search.UserDoc, id)
}

func (c *searchCaller) DeletePost(ctx context.Context, id string) error {
	return c.index.Delete(search.PostDoc, id)
}

func (c *searchCaller) SearchUser(ctx context.Context, query string, offset, limit int) ([]string, error) {
	return c.index.Search(search.UserDoc, query, offset, limit)
}

func (c *searchCaller) SearchPost(ctx context.Context, query string, offset, limit int) ([]string, error) {
	return c.index.Search(search.PostDoc, query, offset, limit)
}

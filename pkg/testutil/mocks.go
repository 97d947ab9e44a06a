package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/openfeed-lab/backend/internal/domain/search"
	"github.com/openfeed-lab/backend/pkg/pubsub"
	"github.com/openfeed-lab/backend/pkg/storage"
)

// MockStorage pretends every upload succeeds and remembers deleted objects.
type MockStorage struct {
	Uploaded []*storage.UploadObject
	Deleted  []string
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (s *MockStorage) Upload(
	ctx context.Context, object *storage.UploadObject,
) (*storage.UploadResponse, error) {
	s.Uploaded = append(s.Uploaded, object)
	fileName := object.Prefix + "/" + object.FileName
	return &storage.UploadResponse{
		Url:      fmt.Sprintf("http://storage.local/%s/%s", object.Bucket, fileName),
		FileName: fileName,
	}, nil
}

func (s *MockStorage) BulkUpload(
	ctx context.Context, objects []*storage.UploadObject,
) ([]*storage.UploadResponse, error) {
	resps := []*storage.UploadResponse{}
	for _, object := range objects {
		resp, err := s.Upload(ctx, object)
		if err != nil {
			return nil, err
		}

		resps = append(resps, resp)
	}

	return resps, nil
}

func (s *MockStorage) Delete(ctx context.Context, bucket, fileName string) error {
	s.Deleted = append(s.Deleted, bucket+"/"+fileName)
	return nil
}

// MockSearchCaller is an in-memory substring index.
type MockSearchCaller struct {
	mutex sync.Mutex
	users map[string]search.UserData
	posts map[string]search.PostData
	order []string
}

func NewMockSearchCaller() *MockSearchCaller {
	return &MockSearchCaller{
		users: map[string]search.UserData{},
		posts: map[string]search.PostData{},
	}
}

func (c *MockSearchCaller) IndexUser(ctx context.Context, id string, data search.UserData) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.users[id]; !ok {
		c.order = append(c.order, id)
	}

	c.users[id] = data
	return nil
}

func (c *MockSearchCaller) IndexPost(ctx context.Context, id string, data search.PostData) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.posts[id]; !ok {
		c.order = append(c.order, id)
	}

	c.posts[id] = data
	return nil
}

func (c *MockSearchCaller) DeleteUser(ctx context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.users, id)
	return nil
}

func (c *MockSearchCaller) DeletePost(ctx context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.posts, id)
	return nil
}

func (c *MockSearchCaller) SearchUser(
	ctx context.Context, query string, offset, limit int,
) ([]string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	matched := []string{}
	for _, id := range c.order {
		data, ok := c.users[id]
		if !ok {
			continue
		}

		if strings.Contains(strings.ToLower(data.Name), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(data.Bio), strings.ToLower(query)) {
			matched = append(matched, id)
		}
	}

	return window(matched, offset, limit), nil
}

func (c *MockSearchCaller) SearchPost(
	ctx context.Context, query string, offset, limit int,
) ([]string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	matched := []string{}
	for _, id := range c.order {
		data, ok := c.posts[id]
		if !ok {
			continue
		}

		if strings.Contains(strings.ToLower(data.Content), strings.ToLower(query)) {
			matched = append(matched, id)
		}
	}

	return window(matched, offset, limit), nil
}

func window(ids []string, offset, limit int) []string {
	if offset >= len(ids) {
		return nil
	}

	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}

	return ids[offset:end]
}

// MockRedisClient is a map-backed stand-in for the redis cache.
type MockRedisClient struct {
	mutex sync.Mutex
	kv    map[string]string
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{kv: map[string]string{}}
}

func (c *MockRedisClient) MGet(ctx context.Context, keys ...string) ([]any, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	values := []any{}
	for _, key := range keys {
		if value, ok := c.kv[key]; ok {
			values = append(values, value)
		} else {
			values = append(values, nil)
		}
	}

	return values, nil
}

func (c *MockRedisClient) MSet(ctx context.Context, kv map[string]any) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, value := range kv {
		c.kv[key] = fmt.Sprintf("%v", value)
	}

	return nil
}

func (c *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, key := range keys {
		delete(c.kv, key)
	}

	return nil
}

// MockPublisher records published packs per topic.
type MockPublisher struct {
	mutex  sync.Mutex
	Packs  map[string][]*pubsub.Pack
	failed error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Packs: map[string][]*pubsub.Pack{}}
}

func (p *MockPublisher) FailWith(err error) {
	p.failed = err
}

func (p *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.failed != nil {
		return p.failed
	}

	p.Packs[topic] = append(p.Packs[topic], pack)
	return nil
}

func (p *MockPublisher) Stop(ctx context.Context) error {
	return nil
}

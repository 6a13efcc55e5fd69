package content

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/common"
	"github.com/dmitrijs2005/gophpress/internal/logging"
	"github.com/dmitrijs2005/gophpress/internal/server/kv"
	"github.com/google/uuid"
)

// Service implements site and post management over the kv store.
type Service struct {
	store     kv.Store
	formatter Formatter
	logger    logging.Logger
	now       func() time.Time
	newID     func() string
}

func NewService(store kv.Store, formatter Formatter, logger logging.Logger) *Service {
	return &Service{
		store:     store,
		formatter: formatter,
		logger:    logger,
		now:       time.Now,
		newID:     newPostID,
	}
}

// newPostID returns a time-ordered UUID so post keys list newest first
// under the store's descending key order.
func newPostID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Service) CreateSite(ctx context.Context, host, title, description string) (*Site, error) {
	host = NormalizeHost(host)
	if host == "" {
		return nil, fmt.Errorf("%w: host is required", common.ErrorValidation)
	}

	_, found, err := s.store.Get(ctx, siteKey(host))
	if err != nil {
		return nil, fmt.Errorf("failed to create site [%s]: %w", host, err)
	}
	if found {
		return nil, fmt.Errorf("site [%s]: %w", host, common.ErrAlreadyExists)
	}

	site := Site{
		Host:        host,
		Title:       title,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Put(ctx, siteKey(host), siteToValue(site)); err != nil {
		return nil, fmt.Errorf("failed to create site [%s]: %w", host, err)
	}
	s.logger.Info(ctx, "site created", "host", host)
	return &site, nil
}

func (s *Service) GetSite(ctx context.Context, host string) (*Site, error) {
	host = NormalizeHost(host)
	value, found, err := s.store.Get(ctx, siteKey(host))
	if err != nil {
		return nil, fmt.Errorf("failed to get site [%s]: %w", host, err)
	}
	if !found {
		return nil, fmt.Errorf("site [%s]: %w", host, common.ErrorNotFound)
	}
	site := valueToSite(value)
	return &site, nil
}

// CreatePost formats, stores and slug-indexes a new post on an existing
// site. The formatter cannot fail; a degraded fallback rendering is still a
// saved post.
func (s *Service) CreatePost(ctx context.Context, host, title, body string, images []string) (*Post, error) {
	host = NormalizeHost(host)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	site, err := s.GetSite(ctx, host)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	slug, err := s.claimSlug(ctx, host, id, title)
	if err != nil {
		return nil, err
	}

	post := Post{
		ID:        id,
		Slug:      slug,
		Title:     title,
		Content:   body,
		HTML:      s.formatter.Generate(ctx, *site, title, body, images),
		Images:    images,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, postKey(host, id), postToValue(post)); err != nil {
		return nil, fmt.Errorf("failed to create post [%s]: %w", slug, err)
	}
	s.logger.Info(ctx, "post created", "host", host, "slug", slug, "id", id)
	return &post, nil
}

// claimSlug reserves a slug for the post with an atomic get-or-put on the
// slug index, suffixing on collision. The post id itself is the last
// resort: it is unique by construction.
func (s *Service) claimSlug(ctx context.Context, host, id, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = id
	}

	index := kv.Map(map[string]kv.Value{"post_key": kv.String(postKey(host, id))})
	candidates := []string{base}
	for i := 2; i <= 20; i++ {
		candidates = append(candidates, fmt.Sprintf("%s-%d", base, i))
	}
	candidates = append(candidates, id)

	for _, candidate := range candidates {
		winner, err := s.store.GetOrPut(ctx, slugKey(host, candidate), index)
		if err != nil {
			return "", fmt.Errorf("failed to claim slug [%s]: %w", candidate, err)
		}
		if fieldString(winner, "post_key") == postKey(host, id) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to claim slug for post [%s]: %w", id, common.ErrAlreadyExists)
}

func (s *Service) GetPostBySlug(ctx context.Context, host, slug string) (*Post, error) {
	host = NormalizeHost(host)
	index, found, err := s.store.Get(ctx, slugKey(host, slug))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slug [%s]: %w", slug, err)
	}
	if !found {
		return nil, fmt.Errorf("post [%s]: %w", slug, common.ErrorNotFound)
	}

	value, found, err := s.store.Get(ctx, fieldString(index, "post_key"))
	if err != nil {
		return nil, fmt.Errorf("failed to get post [%s]: %w", slug, err)
	}
	if !found {
		return nil, fmt.Errorf("post [%s]: %w", slug, common.ErrorNotFound)
	}
	post := valueToPost(value)
	return &post, nil
}

// ListPosts returns a site's posts newest first: post ids are time-ordered
// and the store lists keys in descending order.
func (s *Service) ListPosts(ctx context.Context, host string) ([]Post, error) {
	host = NormalizeHost(host)
	keys, err := s.store.ListKeys(ctx, postPrefix(host))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts [%s]: %w", host, err)
	}

	posts := make([]Post, 0, len(keys))
	for _, key := range keys {
		value, found, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to list posts [%s]: %w", host, err)
		}
		if !found {
			// Deleted between listing and reading.
			continue
		}
		posts = append(posts, valueToPost(value))
	}
	return posts, nil
}

func (s *Service) DeletePost(ctx context.Context, host, slug string) error {
	host = NormalizeHost(host)
	index, found, err := s.store.Get(ctx, slugKey(host, slug))
	if err != nil {
		return fmt.Errorf("failed to resolve slug [%s]: %w", slug, err)
	}
	if !found {
		return fmt.Errorf("post [%s]: %w", slug, common.ErrorNotFound)
	}

	if err := s.store.Delete(ctx, fieldString(index, "post_key")); err != nil {
		return fmt.Errorf("failed to delete post [%s]: %w", slug, err)
	}
	if err := s.store.Delete(ctx, slugKey(host, slug)); err != nil {
		return fmt.Errorf("failed to delete slug index [%s]: %w", slug, err)
	}
	s.logger.Info(ctx, "post deleted", "host", host, "slug", slug)
	return nil
}

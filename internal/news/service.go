package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ona-rest/ona/internal/cache"
	"github.com/ona-rest/ona/internal/content"
	"github.com/ona-rest/ona/internal/logger"
	"github.com/ona-rest/ona/internal/media"
	"github.com/ona-rest/ona/internal/models"
	"github.com/ona-rest/ona/internal/storage"
)

// ErrNotFound is returned for missing articles and for drafts requested without admin rights
var ErrNotFound = storage.ErrNotFound

// ErrEmptyPatch is returned when an edit changes nothing
var ErrEmptyPatch = errors.New("nothing to update")

// ValidationError lists localized fields left blank once markup and whitespace are stripped.
// Fields maps paths such as "title.en" to the failed rule.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid article: %d blank fields", len(e.Fields))
}

// blank records a failure for every locale variant of t that is empty
func blank(fields map[string]string, name string, t models.LocalizedText) {
	if strings.TrimSpace(t.BG) == "" {
		fields[name+"."+models.LocaleBG] = "required"
	}
	if strings.TrimSpace(t.EN) == "" {
		fields[name+"."+models.LocaleEN] = "required"
	}
}

func checkInput(in models.ArticleInput) error {
	fields := map[string]string{}
	blank(fields, "title", in.Title)
	blank(fields, "excerpt", in.Excerpt)
	blank(fields, "content", in.Content)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func checkPatch(p models.ArticlePatch) error {
	fields := map[string]string{}
	for name, t := range map[string]*models.LocalizedText{
		"title":   p.Title,
		"excerpt": p.Excerpt,
		"content": p.Content,
	} {
		if t != nil && !t.Complete() {
			blank(fields, name, *t)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Service coordinates the article store, the published cache and the image host
type Service struct {
	store    storage.ArticleStore
	cache    cache.Store
	media    media.Host
	cleaner  *content.Cleaner
	cacheTTL time.Duration
}

func NewService(store storage.ArticleStore, c cache.Store, host media.Host, cacheTTL time.Duration) *Service {
	return &Service{
		store:    store,
		cache:    c,
		media:    host,
		cleaner:  content.NewCleaner(),
		cacheTTL: cacheTTL,
	}
}

// List returns articles newest first. Published listings are served from the cache when possible.
func (s *Service) List(ctx context.Context, publishedOnly bool) ([]models.Article, error) {
	if !publishedOnly {
		return s.store.List(ctx, storage.Filter{})
	}

	log := logger.Get()

	cached, ok, err := s.cache.GetPublished(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Published cache read failed")
	}
	if ok {
		return cached, nil
	}

	articles, err := s.store.List(ctx, storage.Filter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPublished(ctx, articles, s.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("Published cache write failed")
	}
	return articles, nil
}

// Latest returns at most n published articles
func (s *Service) Latest(ctx context.Context, n int) ([]models.Article, error) {
	articles, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(articles) > n {
		articles = articles[:n]
	}
	return articles, nil
}

// Get returns one article. Drafts are reported as not found unless includeDrafts is set.
func (s *Service) Get(ctx context.Context, id string, includeDrafts bool) (*models.Article, error) {
	article, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.Published && !includeDrafts {
		return nil, ErrNotFound
	}
	return article, nil
}

// Create stores a new article, a draft unless the input says otherwise.
// Text that cleans down to nothing fails with a *ValidationError.
func (s *Service) Create(ctx context.Context, in models.ArticleInput) (*models.Article, error) {
	s.cleaner.Input(&in)
	if err := checkInput(in); err != nil {
		return nil, err
	}

	article := in.NewArticle()
	if err := s.store.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	logger.Get().Info().
		Str("article_id", article.ID).
		Bool("published", article.Published).
		Msg("Article created")

	s.invalidate(ctx)
	return article, nil
}

// Update applies a partial edit
func (s *Service) Update(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}
	s.cleaner.Patch(&patch)
	if err := checkPatch(patch); err != nil {
		return nil, err
	}

	article, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	logger.Get().Info().
		Str("article_id", article.ID).
		Bool("published", article.Published).
		Msg("Article updated")

	s.invalidate(ctx)
	return article, nil
}

// SetPublished toggles public visibility
func (s *Service) SetPublished(ctx context.Context, id string, published bool) (*models.Article, error) {
	return s.Update(ctx, id, models.ArticlePatch{Published: &published})
}

// Delete removes the article. Removing its hosted image is best effort.
func (s *Service) Delete(ctx context.Context, id string) error {
	log := logger.Get()

	article, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if article.ImagePublicID != "" {
		if err := s.media.Delete(ctx, article.ImagePublicID); err != nil {
			log.Warn().
				Err(err).
				Str("article_id", id).
				Str("image_public_id", article.ImagePublicID).
				Msg("Hosted image could not be deleted")
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("article_id", id).Msg("Article deleted")

	s.invalidate(ctx)
	return nil
}

// Upload validates and hosts an image for a later create or edit
func (s *Service) Upload(ctx context.Context, u media.Upload, maxSize int64) (*media.Asset, error) {
	if err := media.Validate(&u, maxSize); err != nil {
		return nil, err
	}

	asset, err := s.media.Upload(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	logger.Get().Info().
		Str("image_public_id", asset.PublicID).
		Int("bytes", len(u.Data)).
		Msg("Image uploaded")

	return asset, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePublished(ctx); err != nil {
		logger.Get().Warn().Err(err).Msg("Published cache invalidation failed")
	}
}

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ona-rest/ona/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArticle(title string) *models.Article {
	return &models.Article{
		Title:   models.LocalizedText{BG: title + " bg", EN: title},
		Excerpt: models.LocalizedText{BG: "откъс", EN: "excerpt"},
		Content: models.LocalizedText{BG: "текст", EN: "text"},
	}
}

// exerciseStore runs the same lifecycle against any ArticleStore
func exerciseStore(t *testing.T, store ArticleStore) {
	ctx := context.Background()

	first := sampleArticle("first")
	require.NoError(t, store.Create(ctx, first))
	require.NotEmpty(t, first.ID)
	assert.False(t, first.Published)
	assert.False(t, first.CreatedAt.IsZero())

	time.Sleep(5 * time.Millisecond)
	second := sampleArticle("second")
	second.Published = true
	require.NoError(t, store.Create(ctx, second))

	all, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	published, err := store.List(ctx, Filter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, second.ID, published[0].ID)

	flag := true
	updated, err := store.Update(ctx, first.ID, models.ArticlePatch{Published: &flag})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.Equal(t, "first", updated.Title.EN)

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Published)

	require.NoError(t, store.Delete(ctx, first.ID))
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, first.ID), ErrNotFound)

	_, err = store.Update(ctx, first.ID, models.ArticlePatch{Published: &flag})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, store.Create(ctx, sampleArticle(title)))
	}

	got, err := store.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set, skipping integration test")
	}

	ctx := context.Background()
	store, err := NewMongoStore(ctx, uri, "ona_test_"+time.Now().Format("150405"))
	require.NoError(t, err)
	defer func() {
		_ = store.coll.Database().Drop(ctx)
		_ = store.Close(ctx)
	}()

	require.NoError(t, store.EnsureIndexes(ctx))
	exerciseStore(t, store)

	_, err = store.Get(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPatchDocument(t *testing.T) {
	image := ""
	published := false
	title := models.LocalizedText{BG: "з", EN: "t"}

	set := patchDocument(models.ArticlePatch{Title: &title, Image: &image, Published: &published})

	assert.Len(t, set, 3)
	assert.Equal(t, title, set["title"])
	assert.Equal(t, "", set["image"])
	assert.Equal(t, false, set["published"])
	assert.NotContains(t, set, "content")
}

package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/testutil"
)

func TestBlogRepo_Create_GetBySlug(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewBlogRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.CreateBlogPostRequest{
			Title:     "Spring Fundraiser Recap",
			Slug:      "spring-fundraiser-recap",
			Body:      "## Thanks to everyone who came out",
			Published: true,
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEmpty(t, created.ID)
		assert.True(t, created.Published)
		require.NotNil(t, created.PublishedAt, "publishing at create time should stamp published_at")

		fetched, err := repo.GetBySlug(ctx, "spring-fundraiser-recap")
		require.NoError(t, err)
		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, "Spring Fundraiser Recap", fetched.Title)
	})
}

func TestBlogRepo_Create_DuplicateSlug(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewBlogRepo(db)
		ctx := context.Background()

		req := &model.CreateBlogPostRequest{Title: "One", Slug: "same-slug", Body: "body"}
		_, err := repo.Create(ctx, req)
		require.NoError(t, err)

		_, err = repo.Create(ctx, &model.CreateBlogPostRequest{Title: "Two", Slug: "same-slug", Body: "body"})
		assert.ErrorIs(t, err, ErrBlogSlugExists)
	})
}

func TestBlogRepo_List_PublishedOnly(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewBlogRepo(db)
		ctx := context.Background()

		for i := range 3 {
			_, err := repo.Create(ctx, &model.CreateBlogPostRequest{
				Title:     fmt.Sprintf("Post %d", i),
				Slug:      fmt.Sprintf("post-%d", i),
				Body:      "body",
				Published: i%2 == 0,
			})
			require.NoError(t, err)
		}

		published, err := repo.List(ctx, model.BlogPostsListOptions{PublishedOnly: true})
		require.NoError(t, err)
		assert.Len(t, published, 2)
		for _, p := range published {
			assert.True(t, p.Published)
		}

		all, err := repo.List(ctx, model.BlogPostsListOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestBlogRepo_Update_PublishKeepsFirstTimestamp(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewBlogRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.CreateBlogPostRequest{
			Title: "Draft", Slug: "draft-post", Body: "body",
		})
		require.NoError(t, err)
		assert.Nil(t, created.PublishedAt)

		published, err := repo.Update(ctx, created.ID, model.UpdateBlogPostRequest{
			Published: testutil.BoolPtr(true),
		})
		require.NoError(t, err)
		require.NotNil(t, published.PublishedAt)
		first := *published.PublishedAt

		// Unpublish then republish; published_at survives unpublish as NULL
		// and gets a fresh stamp on republish via COALESCE over NULL.
		unpublished, err := repo.Update(ctx, created.ID, model.UpdateBlogPostRequest{
			Published: testutil.BoolPtr(false),
		})
		require.NoError(t, err)
		assert.Nil(t, unpublished.PublishedAt)

		again, err := repo.Update(ctx, created.ID, model.UpdateBlogPostRequest{
			Published: testutil.BoolPtr(true),
		})
		require.NoError(t, err)
		require.NotNil(t, again.PublishedAt)
		assert.False(t, again.PublishedAt.Before(first))
	})
}

func TestBlogRepo_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewBlogRepo(db)

		_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrBlogPostNotFound)
	})
}

func TestBlogRepo_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewBlogRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.CreateBlogPostRequest{
			Title: "Gone", Slug: "gone", Body: "body",
		})
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

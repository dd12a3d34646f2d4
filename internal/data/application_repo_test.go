package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/testutil"
)

func TestApplicationRepo_Create_And_List(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.CreateMentorApplicationRequest{
			Name:       "Noor Haddad",
			Email:      "noor@example.org",
			Phone:      "555-0101",
			Motivation: "I want to give back to the program that helped me.",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		apps, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, "noor@example.org", apps[0].Email)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestApplicationRepo_Create_DuplicateEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, &model.CreateMentorApplicationRequest{
			Name: "First", Email: "twice@example.org", Motivation: "motivation",
		})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &model.CreateMentorApplicationRequest{
			Name: "Second", Email: "twice@example.org", Motivation: "motivation",
		})
		assert.ErrorIs(t, err, ErrApplicationEmailExists)
	})
}

func TestApplicationRepo_Approve_CreatesCoachAndRemovesApplication(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)
		coachRepo := NewCoachRepo(db)
		ctx := context.Background()

		app, err := repo.Create(ctx, &model.CreateMentorApplicationRequest{
			Name:       "Dre Palmer",
			Email:      "dre@example.org",
			Motivation: "Coached high school robotics for five years.",
		})
		require.NoError(t, err)

		coach, err := repo.Approve(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dre Palmer", coach.Name)
		assert.Equal(t, "dre@example.org", coach.Email)
		assert.Equal(t, app.Motivation, coach.Bio, "motivation becomes the starting bio")
		assert.True(t, coach.Active)

		_, err = repo.GetByID(ctx, app.ID)
		assert.ErrorIs(t, err, ErrApplicationNotFound)

		fetched, err := coachRepo.GetByID(ctx, coach.ID)
		require.NoError(t, err)
		assert.Equal(t, coach.ID, fetched.ID)
	})
}

func TestApplicationRepo_Approve_ExistingCoachEmailRollsBack(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)
		coachRepo := NewCoachRepo(db)
		ctx := context.Background()

		_, err := coachRepo.Create(ctx, &model.CreateCoachRequest{
			Name: "Existing", Email: "taken@example.org",
		})
		require.NoError(t, err)

		app, err := repo.Create(ctx, &model.CreateMentorApplicationRequest{
			Name: "Hopeful", Email: "taken@example.org", Motivation: "motivation",
		})
		require.NoError(t, err)

		_, err = repo.Approve(ctx, app.ID)
		assert.ErrorIs(t, err, ErrCoachEmailExists)

		// The failed approval must leave the application in the queue.
		still, err := repo.GetByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, app.ID, still.ID)
	})
}

func TestApplicationRepo_Approve_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)

		_, err := repo.Approve(context.Background(), "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})
}

func TestApplicationRepo_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)
		ctx := context.Background()

		app, err := repo.Create(ctx, &model.CreateMentorApplicationRequest{
			Name: "Rejected", Email: "rejected@example.org", Motivation: "motivation",
		})
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, app.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, app.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

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

func TestCoachRepo_Create_Defaults(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewCoachRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.CreateCoachRequest{
			Name:  "Jordan Miles",
			Email: "Jordan.Miles@Example.org",
			Bio:   "Ten years of youth mentoring.",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.True(t, created.Active, "coaches default to active")
		assert.Equal(t, "jordan.miles@example.org", created.Email, "email is normalized to lowercase")
	})
}

func TestCoachRepo_Create_DuplicateEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewCoachRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, &model.CreateCoachRequest{Name: "A", Email: "dup@example.org"})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &model.CreateCoachRequest{Name: "B", Email: "dup@example.org"})
		assert.ErrorIs(t, err, ErrCoachEmailExists)
	})
}

func TestCoachRepo_List_ActiveOnlyAndSearch(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewCoachRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, &model.CreateCoachRequest{Name: "Ada Vaughn", Email: "ada@example.org"})
		require.NoError(t, err)
		_, err = repo.Create(ctx, &model.CreateCoachRequest{
			Name: "Ben Ortiz", Email: "ben@example.org", Active: testutil.BoolPtr(false),
		})
		require.NoError(t, err)

		active, err := repo.List(ctx, model.CoachesListOptions{ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Ada Vaughn", active[0].Name)

		matched, err := repo.List(ctx, model.CoachesListOptions{Q: testutil.StringPtr("ortiz")})
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, "Ben Ortiz", matched[0].Name)
	})
}

func TestCoachRepo_Update(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewCoachRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.CreateCoachRequest{Name: "Cam", Email: "cam@example.org"})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, model.UpdateCoachRequest{
			Bio:    testutil.StringPtr("Updated bio"),
			Active: testutil.BoolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, "Updated bio", updated.Bio)
		assert.False(t, updated.Active)

		_, err = repo.Update(ctx, "00000000-0000-0000-0000-000000000000", model.UpdateCoachRequest{
			Bio: testutil.StringPtr("x"),
		})
		assert.ErrorIs(t, err, ErrCoachNotFound)
	})
}

func TestCoachRepo_Delete_UnassignsCoachees(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		coachRepo := NewCoachRepo(db)
		coacheeRepo := NewCoacheeRepo(db)
		ctx := context.Background()

		coach, err := coachRepo.Create(ctx, &model.CreateCoachRequest{Name: "Del", Email: "del@example.org"})
		require.NoError(t, err)

		coachee, err := coacheeRepo.Create(ctx, &model.CreateCoacheeRequest{
			Name: "Kid", Email: "kid@example.org", CoachID: &coach.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, coachee.CoachID)

		deleted, err := coachRepo.Delete(ctx, coach.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		refetched, err := coacheeRepo.GetByID(ctx, coachee.ID)
		require.NoError(t, err)
		assert.Nil(t, refetched.CoachID, "coach deletion unassigns, never deletes coachees")
	})
}

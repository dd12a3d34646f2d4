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

func TestCoacheeRepo_Create_WithCoachName(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		coachRepo := NewCoachRepo(db)
		repo := NewCoacheeRepo(db)
		ctx := context.Background()

		coach, err := coachRepo.Create(ctx, &model.CreateCoachRequest{Name: "Mia Chen", Email: "mia@example.org"})
		require.NoError(t, err)

		created, err := repo.Create(ctx, &model.CreateCoacheeRequest{
			Name: "Sam Lee", Email: "sam@example.org", CoachID: &coach.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, created.CoachName)
		assert.Equal(t, "Mia Chen", *created.CoachName)
	})
}

func TestCoacheeRepo_Create_MissingCoach(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewCoacheeRepo(db)

		missing := "00000000-0000-0000-0000-000000000000"
		_, err := repo.Create(context.Background(), &model.CreateCoacheeRequest{
			Name: "Orphaned", Email: "orphaned@example.org", CoachID: &missing,
		})
		assert.ErrorIs(t, err, ErrCoachMissing)
	})
}

func TestCoacheeRepo_AssignCoach(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		coachRepo := NewCoachRepo(db)
		repo := NewCoacheeRepo(db)
		ctx := context.Background()

		coach, err := coachRepo.Create(ctx, &model.CreateCoachRequest{Name: "Ray", Email: "ray@example.org"})
		require.NoError(t, err)
		coachee, err := repo.Create(ctx, &model.CreateCoacheeRequest{Name: "Tess", Email: "tess@example.org"})
		require.NoError(t, err)
		assert.Nil(t, coachee.CoachID)

		assigned, err := repo.AssignCoach(ctx, coachee.ID, &coach.ID)
		require.NoError(t, err)
		require.NotNil(t, assigned.CoachID)
		assert.Equal(t, coach.ID, *assigned.CoachID)
		require.NotNil(t, assigned.CoachName)
		assert.Equal(t, "Ray", *assigned.CoachName)

		unassigned, err := repo.AssignCoach(ctx, coachee.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, unassigned.CoachID)
		assert.Nil(t, unassigned.CoachName)
	})
}

func TestCoacheeRepo_List_UnassignedOnly(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		coachRepo := NewCoachRepo(db)
		repo := NewCoacheeRepo(db)
		ctx := context.Background()

		coach, err := coachRepo.Create(ctx, &model.CreateCoachRequest{Name: "Lee", Email: "lee@example.org"})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &model.CreateCoacheeRequest{Name: "Has Coach", Email: "has@example.org", CoachID: &coach.ID})
		require.NoError(t, err)
		_, err = repo.Create(ctx, &model.CreateCoacheeRequest{Name: "No Coach", Email: "no@example.org"})
		require.NoError(t, err)

		unassigned, err := repo.List(ctx, model.CoacheesListOptions{UnassignedOnly: true})
		require.NoError(t, err)
		require.Len(t, unassigned, 1)
		assert.Equal(t, "No Coach", unassigned[0].Name)
	})
}

func TestCoacheeRepo_Update_And_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewCoacheeRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.CreateCoacheeRequest{Name: "Pat", Email: "pat@example.org"})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, model.UpdateCoacheeRequest{
			Notes: testutil.StringPtr("Prefers weekend sessions"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Prefers weekend sessions", updated.Notes)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrCoacheeNotFound)
	})
}

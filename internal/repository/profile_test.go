package repository

import (
	"context"
	"regexp"
	"testing"

	"motion/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_GetByUserID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE user_id = $1`)).
			WithArgs(1, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "job"}).
				AddRow(10, 1, "engineer"))

		profile, err := repo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(10), profile.ID)
		assert.Equal(t, "engineer", profile.Job)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE user_id = $1`)).
			WithArgs(99, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByUserID(ctx, 99)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing profile returned", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewProfileRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE "profiles"."user_id" = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(10, 1))

		profile, err := repo.GetOrCreate(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(10), profile.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing profile created", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewProfileRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE "profiles"."user_id" = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "profiles"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectCommit()

		profile, err := repo.GetOrCreate(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(11), profile.ID)
		assert.Equal(t, uint(1), profile.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-app/internal/model"
	"social-app/internal/util"
)

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewUserRepository(database)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.CreateUser(context.Background(), database, &model.User{UUID: "u1", Email: "a@b.c"})
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindConflict))
}

func TestUserRepository_FindByUUID(t *testing.T) {
	t.Run("frozen excluded", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewUserRepository(database)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE uuid = $1 AND freezed_at IS NULL")).
			WithArgs("u1").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByUUID(context.Background(), database, "u1", false)
		require.Error(t, err)
		assert.True(t, util.IsKind(err, util.KindNotFound))
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	t.Run("frozen included", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewUserRepository(database)
		frozenAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`FROM users WHERE uuid = \$1$`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"uuid", "email", "role", "friends", "freezed_at"}).
				AddRow("u1", "a@b.c", "user", "{u2,u3}", frozenAt))

		user, err := repo.FindByUUID(context.Background(), database, "u1", true)
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.Equal(t, []string{"u2", "u3"}, []string(user.Friends))
		assert.True(t, user.IsFrozen())
	})
}

func TestUserRepository_Freeze(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("stamps credentials time", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewUserRepository(database)

		mock.ExpectExec(regexp.QuoteMeta("change_credentials_time = CASE WHEN $5 THEN $3")).
			WithArgs("u1", "admin", at, "spam", true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Freeze(context.Background(), database, "u1", "admin", "spam", at, true))
	})

	t.Run("already frozen", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := NewUserRepository(database)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Freeze(context.Background(), database, "u1", "u1", "", at, false)
		assert.True(t, util.IsKind(err, util.KindNotFound))
	})
}

func TestUserRepository_AddFriendship_BothDirections(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewUserRepository(database)

	mock.ExpectExec(regexp.QuoteMeta("array_append(friends, $2::text)")).
		WithArgs("u1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("array_append(friends, $2::text)")).
		WithArgs("u2", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.AddFriendship(context.Background(), database, "u1", "u2"))
}

func TestUserRepository_DeleteFrozen(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewUserRepository(database)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE uuid = $1 AND freezed_at IS NOT NULL")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteFrozen(context.Background(), database, "u1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

package users

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepo(db)

	t.Run("returns username and lastname", func(t *testing.T) {
		mock.ExpectQuery(`SELECT username, lastname FROM "Users"`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"username", "lastname"}).
				AddRow("ana", "garcia"))

		name, last, err := repo.DisplayName(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "ana", name)
		assert.Equal(t, "garcia", last)
	})

	t.Run("unknown user resolves to empty names", func(t *testing.T) {
		mock.ExpectQuery(`SELECT username, lastname FROM "Users"`).
			WithArgs(404).
			WillReturnRows(sqlmock.NewRows([]string{"username", "lastname"}))

		name, last, err := repo.DisplayName(context.Background(), 404)
		require.NoError(t, err)
		assert.Empty(t, name)
		assert.Empty(t, last)
	})

	t.Run("null columns resolve to empty names", func(t *testing.T) {
		mock.ExpectQuery(`SELECT username, lastname FROM "Users"`).
			WithArgs(8).
			WillReturnRows(sqlmock.NewRows([]string{"username", "lastname"}).
				AddRow(nil, nil))

		name, last, err := repo.DisplayName(context.Background(), 8)
		require.NoError(t, err)
		assert.Empty(t, name)
		assert.Empty(t, last)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

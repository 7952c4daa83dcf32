package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"stagepass/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var waitlistCols = []string{"id", "event_id", "user_id", "notified", "created_at"}

func TestWaitlistRepository_Create(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO waitlist_entries \(event_id, user_id\)`).
		WithArgs("ev-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "notified", "created_at"}).AddRow("wl-1", false, createdAt))

	entry := &domain.WaitlistEntry{EventID: "ev-1", UserID: "user-1"}
	repo := NewWaitlistRepository(db)
	require.NoError(t, repo.Create(ctx, entry))
	require.Equal(t, "wl-1", entry.ID)
	require.False(t, entry.Notified)
	require.Equal(t, createdAt, entry.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitlistRepository_GetByEventAndUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE event_id = \$1 AND user_id = \$2`).
					WithArgs("ev-1", "user-1").
					WillReturnRows(sqlmock.NewRows(waitlistCols).
						AddRow("wl-1", "ev-1", "user-1", false, time.Now()))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE event_id = \$1 AND user_id = \$2`).
					WithArgs("ev-1", "user-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewWaitlistRepository(db)
			got, err := repo.GetByEventAndUser(ctx, "ev-1", "user-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, "wl-1", got.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWaitlistRepository_ListUnnotified(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE event_id = \$1 AND notified = FALSE\s+ORDER BY created_at ASC\s+LIMIT \$2`).
		WithArgs("ev-1", 2).
		WillReturnRows(sqlmock.NewRows(waitlistCols).
			AddRow("wl-1", "ev-1", "user-1", false, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)).
			AddRow("wl-2", "ev-1", "user-2", false, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))

	repo := NewWaitlistRepository(db)
	entries, err := repo.ListUnnotified(ctx, "ev-1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "wl-1", entries[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitlistRepository_Position(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		count   int
		want    int
		wantErr error
	}{
		{name: "third in line", count: 3, want: 3},
		{name: "entry gone", count: 0, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT COUNT\(\*\)`).
				WithArgs("wl-1").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			repo := NewWaitlistRepository(db)
			got, err := repo.Position(ctx, "wl-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWaitlistRepository_Delete(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM waitlist_entries WHERE event_id = \$1 AND user_id = \$2`).
		WithArgs("ev-1", "user-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewWaitlistRepository(db)
	require.ErrorIs(t, repo.Delete(ctx, "ev-1", "user-missing"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

package knowledge

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresStore_Append(t *testing.T) {
	s, mock := newMockStore(t)
	insight := fixedInsight()

	mock.ExpectExec("INSERT INTO insights").
		WithArgs(insight.ID, insight.Source, insight.Kind, []byte(insight.Payload), insight.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Append(context.Background(), insight))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Recent(t *testing.T) {
	s, mock := newMockStore(t)
	insight := fixedInsight()

	rows := sqlmock.NewRows([]string{"id", "source", "kind", "payload", "created_at"}).
		AddRow(insight.ID, insight.Source, insight.Kind, []byte(insight.Payload), insight.CreatedAt)
	mock.ExpectQuery("SELECT id, source, kind, payload, created_at").
		WithArgs(10).
		WillReturnRows(rows)

	got, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, insight.ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AppendError(t *testing.T) {
	s, mock := newMockStore(t)
	insight := fixedInsight()

	mock.ExpectExec("INSERT INTO insights").
		WillReturnError(assert.AnError)

	assert.Error(t, s.Append(context.Background(), insight))
}

package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/oascms/internal/kv"
)

func TestPostgres_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM kv_entries WHERE bucket = \$1 AND key = \$2`).
		WithArgs("rounds", "r1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"v":1}`)))

	got, err := kv.NewPostgres(db).Bucket("rounds").Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM kv_entries`).
		WithArgs("rounds", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err = kv.NewPostgres(db).Bucket("rounds").Get(context.Background(), "nope")
	assert.ErrorIs(t, err, kv.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Put(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO kv_entries .* ON CONFLICT \(bucket, key\) DO UPDATE`).
		WithArgs("rounds", "r1", `{"v":1}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = kv.NewPostgres(db).Bucket("rounds").Put(context.Background(), "r1", []byte(`{"v":1}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Insert(t *testing.T) {
	type testCase struct {
		name     string
		affected int64
		execErr  error
		wantErr  error
	}

	tests := []testCase{
		{name: "Created", affected: 1},
		{name: "Exists", affected: 0, wantErr: kv.ErrExists},
		{name: "DBError", execErr: errors.New("conn reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			exp := mock.ExpectExec(`INSERT INTO kv_entries .* ON CONFLICT \(bucket, key\) DO NOTHING`).
				WithArgs("payments", "c1/p1", `{}`)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err = kv.NewPostgres(db).Bucket("payments").Insert(context.Background(), "c1/p1", []byte(`{}`))

			switch {
			case tt.execErr != nil:
				assert.ErrorIs(t, err, tt.execErr)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgres_Scan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT key, value\s+FROM kv_entries\s+WHERE bucket = \$1 AND starts_with\(key, \$2\)`).
		WithArgs("payments", "c1/").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("c1/a", []byte(`1`)).
			AddRow("c1/b", []byte(`2`)))

	got, err := kv.NewPostgres(db).Bucket("payments").Scan(context.Background(), "c1/")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1/a", got[0].Key)
	assert.Equal(t, "2", string(got[1].Value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

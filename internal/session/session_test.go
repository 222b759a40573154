package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apigeo/carbone-cli/internal/nlq"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemory(0)
	ctx := context.Background()

	got, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got.Locations)

	sc := nlq.SessionContext{Locations: []string{"TENE"}, Years: []int{2023}}
	require.NoError(t, s.Put(ctx, "abc", sc))

	got, err = s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sc, got)

	require.NoError(t, s.Delete(ctx, "abc"))
	got, err = s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, got.Locations)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemory(10 * time.Minute)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "abc", nlq.SessionContext{Years: []int{1986}}))

	s.now = func() time.Time { return now.Add(9 * time.Minute) }
	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []int{1986}, got.Years)

	s.now = func() time.Time { return now.Add(11 * time.Minute) }
	got, err = s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, got.Years)
}

func TestPostgresStorePut(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgres(mock)
	sc := nlq.SessionContext{Locations: []string{"DOKA"}, Years: []int{2003}}
	raw, err := json.Marshal(sc)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO nlq_sessions").
		WithArgs("sess-1", raw).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Put(context.Background(), "sess-1", sc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgres(mock)

	mock.ExpectQuery("SELECT context FROM nlq_sessions").
		WithArgs("sess-1").
		WillReturnRows(pgxmock.NewRows([]string{"context"}).
			AddRow([]byte(`{"locations":["DOKA"],"years":[2003]}`)))

	got, err := s.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOKA"}, got.Locations)
	assert.Equal(t, []int{2003}, got.Years)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgres(mock)

	mock.ExpectQuery("SELECT context FROM nlq_sessions").
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"context"}))

	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got.Locations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

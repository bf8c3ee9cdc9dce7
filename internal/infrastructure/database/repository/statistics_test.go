package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB records Exec calls and fails Query, standing in for the pool.
type fakeDB struct {
	execSQL  string
	execArgs []any
	execErr  error
	queryErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	f.execArgs = args
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, f.queryErr
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestRecordAnalysisInsertsEvent(t *testing.T) {
	db := &fakeDB{}
	repo := NewStatisticsRepository(db)

	err := repo.RecordAnalysis(context.Background(), "conversation", "cash_card_fraud", 85)

	require.NoError(t, err)
	assert.Contains(t, db.execSQL, "INSERT INTO analysis_events")
	require.Len(t, db.execArgs, 4)
	assert.Equal(t, "conversation", db.execArgs[0])
	assert.Equal(t, "cash_card_fraud", db.execArgs[1])
	assert.Equal(t, 85, db.execArgs[2])
}

func TestRecordAnalysisWrapsError(t *testing.T) {
	db := &fakeDB{execErr: assert.AnError}
	repo := NewStatisticsRepository(db)

	err := repo.RecordAnalysis(context.Background(), "metadata", "sms_phishing", 70)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to record analysis event")
}

func TestTopScamTypesWrapsQueryError(t *testing.T) {
	db := &fakeDB{queryErr: assert.AnError}
	repo := NewStatisticsRepository(db)

	_, err := repo.TopScamTypes(context.Background(), "東京都", 3)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

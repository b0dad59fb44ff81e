package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/kv"
	"github.com/MrJamesThe3rd/oascms/internal/payment"
	"github.com/MrJamesThe3rd/oascms/internal/payment/store"
)

func newPayment(contractID uuid.UUID, amount int64, created time.Time) *payment.Payment {
	return &payment.Payment{
		ID:          uuid.New(),
		ContractID:  contractID,
		Amount:      amount,
		Currency:    "THB",
		PaymentDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Method:      payment.MethodTransfer,
		PayerName:   "Malee",
		CreatedAt:   created,
	}
}

func TestStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory().Bucket(store.BucketName))

	contractID := uuid.New()
	otherContract := uuid.New()
	scheduleID := uuid.New()

	base := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	third := newPayment(contractID, 300, base.Add(2*time.Minute))
	first := newPayment(contractID, 100, base)
	first.ScheduleID = &scheduleID
	second := newPayment(contractID, 200, base.Add(time.Minute))
	foreign := newPayment(otherContract, 999, base)

	for _, p := range []*payment.Payment{third, first, foreign, second} {
		require.NoError(t, s.AppendPayment(ctx, p))
	}

	got, err := s.ListPayments(ctx, contractID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, third.ID, got[2].ID)

	require.NotNil(t, got[0].ScheduleID)
	assert.Equal(t, scheduleID, *got[0].ScheduleID)
	assert.Nil(t, got[1].ScheduleID)
	assert.Equal(t, payment.MethodTransfer, got[0].Method)
	assert.Equal(t, int64(100), got[0].Amount)

	none, err := s.ListPayments(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_AppendNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory().Bucket(store.BucketName))

	p := newPayment(uuid.New(), 100, time.Now())
	require.NoError(t, s.AppendPayment(ctx, p))

	dup := *p
	dup.Amount = 5

	err := s.AppendPayment(ctx, &dup)
	require.ErrorIs(t, err, apperr.ErrConflict)

	got, err := s.ListPayments(ctx, p.ContractID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(100), got[0].Amount)
}

func TestStore_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer db.Close()

	s := store.New(kv.NewPostgres(db).Bucket(store.BucketName))
	p := newPayment(uuid.New(), 4200, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))

	mock.ExpectExec("INSERT INTO kv_entries").
		WithArgs(store.BucketName, p.ContractID.String()+"/"+p.ID.String(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.AppendPayment(context.Background(), p))
	require.NoError(t, mock.ExpectationsWereMet())
}

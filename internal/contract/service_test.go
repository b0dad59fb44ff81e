package contract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/contract"
	"github.com/MrJamesThe3rd/oascms/internal/logger"
)

var fixedNow = time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

func newService(t *testing.T, setup func(m *contract.MockRepository)) *contract.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := contract.NewMockRepository(ctrl)

	if setup != nil {
		setup(repo)
	}

	return contract.NewService(repo,
		contract.WithLogger(logger.Nop()),
		contract.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestService_Create(t *testing.T) {
	valid := contract.CreateParams{
		ProjectID:    "proj-1",
		UnitNumber:   "A-101",
		CustomerName: "Malee",
		TotalAmount:  350_000_000,
		ContractDate: date(2024, 1, 1),
	}

	type testCase struct {
		name          string
		params        func() contract.CreateParams
		setupMock     func(m *contract.MockRepository)
		wantErr       error
		wantSchedules int
		wantDate      time.Time
	}

	tests := []testCase{
		{
			name:   "Success",
			params: func() contract.CreateParams { return valid },
			setupMock: func(m *contract.MockRepository) {
				m.EXPECT().CreateContract(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantSchedules: 7,
			wantDate:      date(2024, 1, 1),
		},
		{
			name: "DefaultsToToday",
			params: func() contract.CreateParams {
				p := valid
				p.ContractDate = time.Time{}
				return p
			},
			setupMock: func(m *contract.MockRepository) {
				m.EXPECT().CreateContract(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantSchedules: 7,
			wantDate:      date(2024, 1, 15),
		},
		{
			name: "SkipSchedules",
			params: func() contract.CreateParams {
				p := valid
				p.SkipSchedules = true
				return p
			},
			setupMock: func(m *contract.MockRepository) {
				m.EXPECT().CreateContract(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantSchedules: 0,
			wantDate:      date(2024, 1, 1),
		},
		{
			name: "ZeroAmount",
			params: func() contract.CreateParams {
				p := valid
				p.TotalAmount = 0
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "MissingCustomer",
			params: func() contract.CreateParams {
				p := valid
				p.CustomerName = ""
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name:   "RepoError",
			params: func() contract.CreateParams { return valid },
			setupMock: func(m *contract.MockRepository) {
				m.EXPECT().CreateContract(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.setupMock)

			got, err := svc.Create(context.Background(), tt.params())
			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, apperr.ErrInvalidInput) {
					assert.ErrorIs(t, err, apperr.ErrInvalidInput)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, contract.StatusDraft, got.Status)
			assert.Equal(t, tt.wantDate, got.ContractDate)
			assert.Equal(t, fixedNow, got.CreatedAt)
			assert.Len(t, got.PaymentSchedules, tt.wantSchedules)
		})
	}
}

func TestService_GenerateSchedules(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc := newService(t, func(m *contract.MockRepository) {
			m.EXPECT().GetContract(gomock.Any(), id).Return(&contract.Contract{
				ID:           id,
				TotalAmount:  1_000_000,
				ContractDate: date(2024, 1, 1),
				Status:       contract.StatusDraft,
			}, nil)
			m.EXPECT().SaveContract(gomock.Any(), gomock.Any()).Return(nil)
		})

		got, err := svc.GenerateSchedules(context.Background(), id)
		require.NoError(t, err)
		assert.Len(t, got.PaymentSchedules, 7)
		require.NotNil(t, got.UpdatedAt)
		assert.Equal(t, fixedNow, *got.UpdatedAt)
	})

	t.Run("AlreadyGenerated", func(t *testing.T) {
		schedules, err := contract.GenerateSchedules(1_000_000, date(2024, 1, 1))
		require.NoError(t, err)

		svc := newService(t, func(m *contract.MockRepository) {
			m.EXPECT().GetContract(gomock.Any(), id).Return(&contract.Contract{
				ID:               id,
				TotalAmount:      1_000_000,
				ContractDate:     date(2024, 1, 1),
				PaymentSchedules: schedules,
			}, nil)
		})

		_, err = svc.GenerateSchedules(context.Background(), id)
		require.ErrorIs(t, err, apperr.ErrInvalidStateTransition)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := newService(t, func(m *contract.MockRepository) {
			m.EXPECT().GetContract(gomock.Any(), id).Return(nil, apperr.ErrNotFound)
		})

		_, err := svc.GenerateSchedules(context.Background(), id)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name    string
		from    contract.Status
		to      contract.Status
		wantErr error
	}

	tests := []testCase{
		{name: "Activate", from: contract.StatusDraft, to: contract.StatusActive},
		{name: "Complete", from: contract.StatusActive, to: contract.StatusCompleted},
		{name: "TerminateDraft", from: contract.StatusDraft, to: contract.StatusTerminated},
		{name: "CompleteDraft", from: contract.StatusDraft, to: contract.StatusCompleted, wantErr: apperr.ErrInvalidStateTransition},
		{name: "ReopenTerminated", from: contract.StatusTerminated, to: contract.StatusActive, wantErr: apperr.ErrInvalidStateTransition},
		{name: "UnknownStatus", from: contract.StatusDraft, to: contract.Status("cancelled"), wantErr: apperr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, func(m *contract.MockRepository) {
				if tt.to.IsValid() {
					m.EXPECT().GetContract(gomock.Any(), id).Return(&contract.Contract{ID: id, Status: tt.from}, nil)
				}

				if tt.wantErr == nil {
					m.EXPECT().SaveContract(gomock.Any(), gomock.Any()).Return(nil)
				}
			})

			got, err := svc.UpdateStatus(context.Background(), id, tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
		})
	}
}

func TestService_MarkSchedulePaid(t *testing.T) {
	id := uuid.New()

	schedules, err := contract.GenerateSchedules(1_000_000, date(2024, 1, 1))
	require.NoError(t, err)

	target := schedules[2].ID

	t.Run("Success", func(t *testing.T) {
		svc := newService(t, func(m *contract.MockRepository) {
			m.EXPECT().GetContract(gomock.Any(), id).Return(&contract.Contract{
				ID:               id,
				PaymentSchedules: append([]contract.Schedule(nil), schedules...),
			}, nil)
			m.EXPECT().
				SaveContract(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, c *contract.Contract) error {
					assert.Equal(t, contract.SchedulePaid, c.Schedule(target).Status)
					assert.Equal(t, contract.SchedulePending, c.PaymentSchedules[0].Status)
					return nil
				})
		})

		require.NoError(t, svc.MarkSchedulePaid(context.Background(), id, target))
	})

	t.Run("AlreadyPaidIsNoop", func(t *testing.T) {
		paid := append([]contract.Schedule(nil), schedules...)
		paid[2].Status = contract.SchedulePaid

		svc := newService(t, func(m *contract.MockRepository) {
			m.EXPECT().GetContract(gomock.Any(), id).Return(&contract.Contract{ID: id, PaymentSchedules: paid}, nil)
		})

		require.NoError(t, svc.MarkSchedulePaid(context.Background(), id, target))
	})

	t.Run("UnknownSchedule", func(t *testing.T) {
		svc := newService(t, func(m *contract.MockRepository) {
			m.EXPECT().GetContract(gomock.Any(), id).Return(&contract.Contract{ID: id, PaymentSchedules: schedules}, nil)
		})

		err := svc.MarkSchedulePaid(context.Background(), id, uuid.New())
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

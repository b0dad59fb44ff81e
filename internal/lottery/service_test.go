package lottery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/logger"
	"github.com/MrJamesThe3rd/oascms/internal/lottery"
	"github.com/MrJamesThe3rd/oascms/internal/metrics"
)

var fixedNow = time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T, setup func(m *lottery.MockRepository), opts ...lottery.Option) *lottery.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := lottery.NewMockRepository(ctrl)

	if setup != nil {
		setup(repo)
	}

	opts = append([]lottery.Option{
		lottery.WithLogger(logger.Nop()),
		lottery.WithClock(func() time.Time { return fixedNow }),
	}, opts...)

	return lottery.NewService(repo, opts...)
}

func TestService_OpenRound(t *testing.T) {
	validParams := lottery.OpenRoundParams{
		ProjectID:      "proj-1",
		Name:           "Phase 1",
		StartDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		TotalWinners:   2,
		AvailableUnits: []string{"U1", " U2 ", "U1", "", "U3"},
	}

	type testCase struct {
		name      string
		params    func() lottery.OpenRoundParams
		setupMock func(m *lottery.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: func() lottery.OpenRoundParams { return validParams },
			setupMock: func(m *lottery.MockRepository) {
				m.EXPECT().CreateRound(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "ZeroWinners",
			params: func() lottery.OpenRoundParams {
				p := validParams
				p.TotalWinners = 0
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "EndBeforeStart",
			params: func() lottery.OpenRoundParams {
				p := validParams
				p.EndDate = p.StartDate.AddDate(0, 0, -1)
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "MissingProject",
			params: func() lottery.OpenRoundParams {
				p := validParams
				p.ProjectID = ""
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name:   "RepoError",
			params: func() lottery.OpenRoundParams { return validParams },
			setupMock: func(m *lottery.MockRepository) {
				m.EXPECT().CreateRound(gomock.Any(), gomock.Any()).Return(apperr.ErrConflict)
			},
			wantErr: apperr.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.setupMock)

			got, err := svc.OpenRound(context.Background(), tt.params())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, lottery.RoundOpen, got.Status)
			assert.Equal(t, []string{"U1", "U2", "U3"}, got.AvailableUnits)
			assert.Equal(t, fixedNow, got.CreatedAt)
			assert.Empty(t, got.Applicants)
		})
	}
}

func validApplicant() lottery.AddApplicantParams {
	return lottery.AddApplicantParams{
		Name:          "Somchai",
		Phone:         "0812345678",
		Email:         "somchai@example.com",
		PriorityGroup: lottery.GroupFirstTime,
		Profile:       lottery.ApplicantProfile{Age: 35, FamilySize: 4, YearsOfResidence: 3, IsFirstTimeBuyer: true},
		Preferences: []lottery.Preference{
			{UnitID: "U1", Rank: 1},
			{UnitID: "U2", Rank: 2},
		},
	}
}

func TestService_AddApplicant(t *testing.T) {
	roundID := uuid.New()

	type testCase struct {
		name      string
		params    func() lottery.AddApplicantParams
		setupMock func(m *lottery.MockRepository)
		wantErr   error
	}

	storedRound := func(status lottery.RoundStatus) *lottery.Round {
		return &lottery.Round{ID: roundID, TotalWinners: 1, Status: status}
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validApplicant,
			setupMock: func(m *lottery.MockRepository) {
				m.EXPECT().GetRound(gomock.Any(), roundID).Return(storedRound(lottery.RoundOpen), nil)
				m.EXPECT().
					SaveRound(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *lottery.Round) error {
						require.Len(t, r.Applicants, 1)
						assert.Equal(t, 1125, r.Applicants[0].PriorityScore)
						return nil
					})
			},
		},
		{
			name: "UnknownGroup",
			params: func() lottery.AddApplicantParams {
				p := validApplicant()
				p.PriorityGroup = "P5_VIP"
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "Underage",
			params: func() lottery.AddApplicantParams {
				p := validApplicant()
				p.Profile.Age = 16
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "BadEmail",
			params: func() lottery.AddApplicantParams {
				p := validApplicant()
				p.Email = "not-an-email"
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "TooManyPreferences",
			params: func() lottery.AddApplicantParams {
				p := validApplicant()
				p.Preferences = []lottery.Preference{
					{UnitID: "U1", Rank: 1}, {UnitID: "U2", Rank: 2}, {UnitID: "U3", Rank: 3}, {UnitID: "U4", Rank: 3},
				}
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "DuplicateUnit",
			params: func() lottery.AddApplicantParams {
				p := validApplicant()
				p.Preferences = []lottery.Preference{{UnitID: "U1", Rank: 1}, {UnitID: "U1", Rank: 2}}
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "DuplicateRank",
			params: func() lottery.AddApplicantParams {
				p := validApplicant()
				p.Preferences = []lottery.Preference{{UnitID: "U1", Rank: 1}, {UnitID: "U2", Rank: 1}}
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name: "RankOutOfRange",
			params: func() lottery.AddApplicantParams {
				p := validApplicant()
				p.Preferences = []lottery.Preference{{UnitID: "U1", Rank: 4}}
				return p
			},
			wantErr: apperr.ErrInvalidInput,
		},
		{
			name:   "RoundNotFound",
			params: validApplicant,
			setupMock: func(m *lottery.MockRepository) {
				m.EXPECT().GetRound(gomock.Any(), roundID).Return(nil, apperr.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:   "RoundClosed",
			params: validApplicant,
			setupMock: func(m *lottery.MockRepository) {
				m.EXPECT().GetRound(gomock.Any(), roundID).Return(storedRound(lottery.RoundClosed), nil)
			},
			wantErr: apperr.ErrInvalidStateTransition,
		},
		{
			name:   "RoundDrawn",
			params: validApplicant,
			setupMock: func(m *lottery.MockRepository) {
				m.EXPECT().GetRound(gomock.Any(), roundID).Return(storedRound(lottery.RoundDrawn), nil)
			},
			wantErr: apperr.ErrInvalidStateTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.setupMock)

			got, err := svc.AddApplicant(context.Background(), roundID, tt.params())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, lottery.ApplicantPending, got.Status)
			assert.Equal(t, fixedNow, got.SubmittedAt)
			assert.Nil(t, got.AllocatedUnitID)
		})
	}
}

func TestService_CloseRound(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc := newService(t, func(m *lottery.MockRepository) {
			m.EXPECT().GetRound(gomock.Any(), id).Return(&lottery.Round{ID: id, Status: lottery.RoundOpen}, nil)
			m.EXPECT().SaveRound(gomock.Any(), gomock.Any()).Return(nil)
		})

		got, err := svc.CloseRound(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, lottery.RoundClosed, got.Status)
	})

	t.Run("AlreadyClosed", func(t *testing.T) {
		svc := newService(t, func(m *lottery.MockRepository) {
			m.EXPECT().GetRound(gomock.Any(), id).Return(&lottery.Round{ID: id, Status: lottery.RoundClosed}, nil)
		})

		_, err := svc.CloseRound(context.Background(), id)
		require.ErrorIs(t, err, apperr.ErrInvalidStateTransition)
	})
}

func TestService_DrawWinners(t *testing.T) {
	id := uuid.New()

	newRound := func() *lottery.Round {
		return &lottery.Round{
			ID:             id,
			TotalWinners:   2,
			AvailableUnits: []string{"U1"},
			Status:         lottery.RoundOpen,
			Applicants: []*lottery.Applicant{
				applicantWithScore("a", 900),
				applicantWithScore("b", 800),
				applicantWithScore("c", 700),
			},
		}
	}

	t.Run("Success", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		rec := metrics.New(reg)

		var saved *lottery.Round

		svc := newService(t, func(m *lottery.MockRepository) {
			m.EXPECT().GetRound(gomock.Any(), id).Return(newRound(), nil)
			m.EXPECT().
				SaveRound(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, r *lottery.Round) error {
					saved = r
					return nil
				})
		}, lottery.WithMetrics(rec))

		got, err := svc.DrawWinners(context.Background(), id)
		require.NoError(t, err)

		assert.Same(t, saved, got)
		assert.Equal(t, lottery.RoundDrawn, got.Status)
		assert.Equal(t, fixedNow, *got.DrawnAt)
		require.Len(t, got.WaitingList, 1)

		n, err := testutil.GatherAndCount(reg, "oascms_lottery_draws_total")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("AlreadyDrawnNotSaved", func(t *testing.T) {
		svc := newService(t, func(m *lottery.MockRepository) {
			r := newRound()
			r.Status = lottery.RoundDrawn
			m.EXPECT().GetRound(gomock.Any(), id).Return(r, nil)
		})

		_, err := svc.DrawWinners(context.Background(), id)
		require.ErrorIs(t, err, apperr.ErrInvalidStateTransition)
	})

	t.Run("SaveError", func(t *testing.T) {
		svc := newService(t, func(m *lottery.MockRepository) {
			m.EXPECT().GetRound(gomock.Any(), id).Return(newRound(), nil)
			m.EXPECT().SaveRound(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
		})

		got, err := svc.DrawWinners(context.Background(), id)
		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestService_Results(t *testing.T) {
	id := uuid.New()

	round := openRound(1, []string{"U1"}, applicantWithScore("a", 900), applicantWithScore("b", 100))
	round.ID = id

	drawn, err := lottery.Draw(round, drawTime)
	require.NoError(t, err)

	svc := newService(t, func(m *lottery.MockRepository) {
		m.EXPECT().GetRound(gomock.Any(), id).Return(drawn, nil)
	})

	res, err := svc.Results(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, res.Winners, 1)
	assert.Empty(t, res.Unallocated)
	assert.Len(t, res.WaitingList, 1)
}

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/kv"
	"github.com/MrJamesThe3rd/oascms/internal/lottery"
	"github.com/MrJamesThe3rd/oascms/internal/lottery/store"
)

func newRound(project string, created time.Time) *lottery.Round {
	return &lottery.Round{
		ID:             uuid.New(),
		ProjectID:      project,
		Name:           "Phase 1",
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalWinners:   1,
		AvailableUnits: []string{"U1", "U2"},
		Status:         lottery.RoundOpen,
		Applicants:     []*lottery.Applicant{},
		WaitingList:    []lottery.WaitingListEntry{},
		CreatedAt:      created,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory().Bucket(store.BucketName))

	round := newRound("proj-1", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, s.CreateRound(ctx, round))

	round.Applicants = append(round.Applicants,
		&lottery.Applicant{
			ID:            uuid.New(),
			Name:          "a",
			Email:         "a@example.com",
			PriorityGroup: lottery.GroupLocal,
			Profile:       lottery.ApplicantProfile{Age: 44, FamilySize: 3, YearsOfResidence: 5},
			Preferences:   []lottery.Preference{{UnitID: "U2", Rank: 1}},
			Status:        lottery.ApplicantPending,
			PriorityScore: 585,
			SubmittedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		&lottery.Applicant{
			ID:            uuid.New(),
			Name:          "b",
			PriorityGroup: lottery.GroupGeneral,
			Profile:       lottery.ApplicantProfile{Age: 22, FamilySize: 1},
			Status:        lottery.ApplicantPending,
			PriorityScore: 270,
			SubmittedAt:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	)

	drawn, err := lottery.Draw(round, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, s.SaveRound(ctx, drawn))

	got, err := s.GetRound(ctx, round.ID)
	require.NoError(t, err)

	assert.Equal(t, lottery.RoundDrawn, got.Status)
	require.Len(t, got.Applicants, 2)
	assert.Equal(t, "a", got.Applicants[0].Name)
	assert.Equal(t, lottery.ApplicantWon, got.Applicants[0].Status)
	require.NotNil(t, got.Applicants[0].AllocatedUnitID)
	assert.Equal(t, "U2", *got.Applicants[0].AllocatedUnitID)
	assert.Equal(t, drawn.Applicants[0].Profile, got.Applicants[0].Profile)
	assert.Equal(t, drawn.Applicants[0].Preferences, got.Applicants[0].Preferences)
	assert.Nil(t, got.Applicants[1].AllocatedUnitID)
	assert.Equal(t, drawn.WaitingList, got.WaitingList)
	assert.True(t, drawn.DrawnAt.Equal(*got.DrawnAt))
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory().Bucket(store.BucketName))

	_, err := s.GetRound(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = s.SaveRound(ctx, newRound("p", time.Now()))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	round := newRound("p", time.Now())
	require.NoError(t, s.CreateRound(ctx, round))
	assert.ErrorIs(t, s.CreateRound(ctx, round), apperr.ErrConflict)
}

func TestStore_ListRounds(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory().Bucket(store.BucketName))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := newRound("alpha", base.Add(2*time.Hour))
	early := newRound("alpha", base)
	other := newRound("beta", base.Add(time.Hour))

	for _, r := range []*lottery.Round{late, other, early} {
		require.NoError(t, s.CreateRound(ctx, r))
	}

	all, err := s.ListRounds(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{early.ID, other.ID, late.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	alpha, err := s.ListRounds(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, alpha, 2)
	assert.Equal(t, early.ID, alpha[0].ID)
	assert.Equal(t, late.ID, alpha[1].ID)

	none, err := s.ListRounds(ctx, "gamma")
	require.NoError(t, err)
	assert.Empty(t, none)
}

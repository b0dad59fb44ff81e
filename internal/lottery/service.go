package lottery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/logger"
	"github.com/MrJamesThe3rd/oascms/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=lottery
type Repository interface {
	CreateRound(ctx context.Context, round *Round) error
	GetRound(ctx context.Context, id uuid.UUID) (*Round, error)
	SaveRound(ctx context.Context, round *Round) error
	ListRounds(ctx context.Context, projectID string) ([]*Round, error)
}

type Service struct {
	repo    Repository
	log     *logger.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type OpenRoundParams struct {
	ProjectID      string    `validate:"required"`
	Name           string    `validate:"required"`
	StartDate      time.Time `validate:"required"`
	EndDate        time.Time `validate:"required"`
	TotalWinners   int       `validate:"gt=0"`
	AvailableUnits []string
}

// OpenRound creates a round in the open state. The unit list is snapshotted with duplicates
// and blanks removed, keeping first-seen order.
func (s *Service) OpenRound(ctx context.Context, params OpenRoundParams) (*Round, error) {
	if err := apperr.FromValidation(validate.Struct(params)); err != nil {
		return nil, err
	}

	if params.EndDate.Before(params.StartDate) {
		return nil, apperr.Invalid("end date %s is before start date %s",
			params.EndDate.Format(time.DateOnly), params.StartDate.Format(time.DateOnly))
	}

	round := &Round{
		ID:             uuid.New(),
		ProjectID:      params.ProjectID,
		Name:           params.Name,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
		TotalWinners:   params.TotalWinners,
		AvailableUnits: dedupeUnits(params.AvailableUnits),
		Status:         RoundOpen,
		Applicants:     []*Applicant{},
		WaitingList:    []WaitingListEntry{},
		CreatedAt:      s.now().UTC(),
	}

	if err := s.repo.CreateRound(ctx, round); err != nil {
		return nil, fmt.Errorf("creating round: %w", err)
	}

	s.log.Info(ctx, "lottery round opened", map[string]any{
		"round_id":      round.ID.String(),
		"project_id":    round.ProjectID,
		"total_winners": round.TotalWinners,
		"units":         len(round.AvailableUnits),
	})

	return round, nil
}

type AddApplicantParams struct {
	Name          string `validate:"required"`
	Phone         string
	Email         string `validate:"omitempty,email"`
	PriorityGroup PriorityGroup
	Profile       ApplicantProfile
	Preferences   []Preference
}

// AddApplicant enters a pending applicant into an open round. The priority score is computed
// once here and cached on the applicant.
func (s *Service) AddApplicant(ctx context.Context, roundID uuid.UUID, params AddApplicantParams) (*Applicant, error) {
	if err := validateApplicant(params); err != nil {
		return nil, err
	}

	round, err := s.repo.GetRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("getting round: %w", err)
	}

	if round.Status != RoundOpen {
		return nil, apperr.InvalidState("round %s is %s, applicants can only join open rounds", round.ID, round.Status)
	}

	applicant := &Applicant{
		ID:            uuid.New(),
		Name:          params.Name,
		Phone:         params.Phone,
		Email:         params.Email,
		PriorityGroup: params.PriorityGroup,
		Profile:       params.Profile,
		Preferences:   append([]Preference(nil), params.Preferences...),
		Status:        ApplicantPending,
		PriorityScore: ComputePriorityScore(params.Profile, params.PriorityGroup),
		SubmittedAt:   s.now().UTC(),
	}

	round.Applicants = append(round.Applicants, applicant)

	if err := s.repo.SaveRound(ctx, round); err != nil {
		return nil, fmt.Errorf("saving round: %w", err)
	}

	return applicant, nil
}

// CloseRound stops a round from taking applicants without drawing it.
func (s *Service) CloseRound(ctx context.Context, roundID uuid.UUID) (*Round, error) {
	round, err := s.repo.GetRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("getting round: %w", err)
	}

	if round.Status != RoundOpen {
		return nil, apperr.InvalidState("round %s is %s, only open rounds can be closed", round.ID, round.Status)
	}

	round.Status = RoundClosed

	if err := s.repo.SaveRound(ctx, round); err != nil {
		return nil, fmt.Errorf("saving round: %w", err)
	}

	return round, nil
}

// DrawWinners draws an open round and persists the result. Nothing is saved if the draw fails.
func (s *Service) DrawWinners(ctx context.Context, roundID uuid.UUID) (*Round, error) {
	round, err := s.repo.GetRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("getting round: %w", err)
	}

	drawn, err := Draw(round, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveRound(ctx, drawn); err != nil {
		return nil, fmt.Errorf("saving drawn round: %w", err)
	}

	res, err := Summarize(drawn)
	if err != nil {
		return nil, err
	}

	allocated := len(res.Winners) - len(res.Unallocated)
	s.metrics.ObserveDraw(allocated, len(res.Unallocated))

	s.log.Info(ctx, "lottery round drawn", map[string]any{
		"round_id":    drawn.ID.String(),
		"applicants":  len(drawn.Applicants),
		"winners":     len(res.Winners),
		"unallocated": len(res.Unallocated),
		"waiting":     len(res.WaitingList),
	})

	if len(res.Unallocated) > 0 {
		s.log.Warn(ctx, "winners left without a unit", map[string]any{
			"round_id": drawn.ID.String(),
			"count":    len(res.Unallocated),
		})
	}

	return drawn, nil
}

func (s *Service) GetRound(ctx context.Context, id uuid.UUID) (*Round, error) {
	return s.repo.GetRound(ctx, id)
}

// ListRounds returns the rounds of a project, or every round when projectID is empty.
func (s *Service) ListRounds(ctx context.Context, projectID string) ([]*Round, error) {
	return s.repo.ListRounds(ctx, projectID)
}

// Results returns the draw summary of a drawn round.
func (s *Service) Results(ctx context.Context, roundID uuid.UUID) (*DrawResult, error) {
	round, err := s.repo.GetRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("getting round: %w", err)
	}

	return Summarize(round)
}

func validateApplicant(params AddApplicantParams) error {
	var errs []error

	// Struct tags cover the contact fields and the nested profile.
	if err := apperr.FromValidation(validate.Struct(params)); err != nil {
		errs = append(errs, err)
	}

	if !params.PriorityGroup.IsValid() {
		errs = append(errs, apperr.Invalid("unknown priority group %q", params.PriorityGroup))
	}

	if err := validatePreferences(params.Preferences); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validatePreferences(prefs []Preference) error {
	if len(prefs) > MaxPreferences {
		return apperr.Invalid("at most %d preferences allowed, got %d", MaxPreferences, len(prefs))
	}

	units := make(map[string]bool, len(prefs))
	ranks := make(map[int]bool, len(prefs))

	for _, p := range prefs {
		if strings.TrimSpace(p.UnitID) == "" {
			return apperr.Invalid("preference unit is required")
		}

		if p.Rank < 1 || p.Rank > MaxPreferences {
			return apperr.Invalid("preference rank %d out of range 1..%d", p.Rank, MaxPreferences)
		}

		if units[p.UnitID] {
			return apperr.Invalid("unit %s listed more than once", p.UnitID)
		}

		if ranks[p.Rank] {
			return apperr.Invalid("rank %d used more than once", p.Rank)
		}

		units[p.UnitID] = true
		ranks[p.Rank] = true
	}

	return nil
}

func dedupeUnits(units []string) []string {
	seen := make(map[string]bool, len(units))
	out := make([]string, 0, len(units))

	for _, u := range units {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}

		seen[u] = true
		out = append(out, u)
	}

	return out
}

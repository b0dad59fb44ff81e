package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/kv"
	"github.com/MrJamesThe3rd/oascms/internal/lottery"
)

// BucketName is the kv bucket owned by the lottery store.
const BucketName = "lottery_rounds"

type Store struct {
	bucket kv.Bucket
}

func New(bucket kv.Bucket) *Store {
	return &Store{bucket: bucket}
}

func (s *Store) CreateRound(ctx context.Context, round *lottery.Round) error {
	data, err := json.Marshal(toRecord(round))
	if err != nil {
		return fmt.Errorf("encoding round: %w", err)
	}

	if err := s.bucket.Insert(ctx, round.ID.String(), data); err != nil {
		if errors.Is(err, kv.ErrExists) {
			return fmt.Errorf("round %s: %w", round.ID, apperr.ErrConflict)
		}

		return fmt.Errorf("creating round: %w", err)
	}

	return nil
}

func (s *Store) GetRound(ctx context.Context, id uuid.UUID) (*lottery.Round, error) {
	data, err := s.bucket.Get(ctx, id.String())
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, fmt.Errorf("round %s: %w", id, apperr.ErrNotFound)
		}

		return nil, fmt.Errorf("getting round: %w", err)
	}

	return decode(data)
}

// SaveRound replaces a stored round. The round must already exist.
func (s *Store) SaveRound(ctx context.Context, round *lottery.Round) error {
	if _, err := s.GetRound(ctx, round.ID); err != nil {
		return err
	}

	data, err := json.Marshal(toRecord(round))
	if err != nil {
		return fmt.Errorf("encoding round: %w", err)
	}

	if err := s.bucket.Put(ctx, round.ID.String(), data); err != nil {
		return fmt.Errorf("saving round: %w", err)
	}

	return nil
}

// ListRounds returns rounds ordered by creation time. An empty projectID matches every round.
func (s *Store) ListRounds(ctx context.Context, projectID string) ([]*lottery.Round, error) {
	entries, err := s.bucket.Scan(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing rounds: %w", err)
	}

	rounds := make([]*lottery.Round, 0, len(entries))

	for _, e := range entries {
		r, err := decode(e.Value)
		if err != nil {
			return nil, err
		}

		if projectID != "" && r.ProjectID != projectID {
			continue
		}

		rounds = append(rounds, r)
	}

	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].CreatedAt.Before(rounds[j].CreatedAt)
	})

	return rounds, nil
}

func decode(data []byte) (*lottery.Round, error) {
	var rec roundRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding round: %w", err)
	}

	return rec.toRound(), nil
}

type roundRecord struct {
	ID             uuid.UUID         `json:"id"`
	ProjectID      string            `json:"projectId"`
	Name           string            `json:"name"`
	StartDate      time.Time         `json:"startDate"`
	EndDate        time.Time         `json:"endDate"`
	TotalWinners   int               `json:"totalWinners"`
	AvailableUnits []string          `json:"availableUnits"`
	Status         string            `json:"status"`
	Applicants     []applicantRecord `json:"applicants"`
	WaitingList    []waitingRecord   `json:"waitingList"`
	CreatedAt      time.Time         `json:"createdAt"`
	DrawnAt        *time.Time        `json:"drawnAt,omitempty"`
}

type applicantRecord struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Phone           string             `json:"phone,omitempty"`
	Email           string             `json:"email,omitempty"`
	PriorityGroup   string             `json:"priorityGroup"`
	Profile         profileRecord      `json:"profile"`
	Preferences     []preferenceRecord `json:"preferences"`
	Status          string             `json:"status"`
	AllocatedUnitID *string            `json:"allocatedUnitId"`
	PriorityScore   int                `json:"priorityScore"`
	SubmittedAt     time.Time          `json:"submittedAt"`
}

type profileRecord struct {
	Age              int  `json:"age"`
	FamilySize       int  `json:"familySize"`
	YearsOfResidence int  `json:"yearsOfResidence"`
	IsFirstTimeBuyer bool `json:"isFirstTimeBuyer"`
}

type preferenceRecord struct {
	UnitID string `json:"unitId"`
	Rank   int    `json:"rank"`
}

type waitingRecord struct {
	ApplicantID uuid.UUID `json:"applicantId"`
	Rank        int       `json:"rank"`
	Status      string    `json:"status"`
}

func toRecord(r *lottery.Round) roundRecord {
	rec := roundRecord{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		Name:           r.Name,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		TotalWinners:   r.TotalWinners,
		AvailableUnits: r.AvailableUnits,
		Status:         string(r.Status),
		Applicants:     make([]applicantRecord, 0, len(r.Applicants)),
		WaitingList:    make([]waitingRecord, 0, len(r.WaitingList)),
		CreatedAt:      r.CreatedAt,
		DrawnAt:        r.DrawnAt,
	}

	for _, a := range r.Applicants {
		ar := applicantRecord{
			ID:            a.ID,
			Name:          a.Name,
			Phone:         a.Phone,
			Email:         a.Email,
			PriorityGroup: string(a.PriorityGroup),
			Profile: profileRecord{
				Age:              a.Profile.Age,
				FamilySize:       a.Profile.FamilySize,
				YearsOfResidence: a.Profile.YearsOfResidence,
				IsFirstTimeBuyer: a.Profile.IsFirstTimeBuyer,
			},
			Preferences:     make([]preferenceRecord, 0, len(a.Preferences)),
			Status:          string(a.Status),
			AllocatedUnitID: a.AllocatedUnitID,
			PriorityScore:   a.PriorityScore,
			SubmittedAt:     a.SubmittedAt,
		}

		for _, p := range a.Preferences {
			ar.Preferences = append(ar.Preferences, preferenceRecord{UnitID: p.UnitID, Rank: p.Rank})
		}

		rec.Applicants = append(rec.Applicants, ar)
	}

	for _, w := range r.WaitingList {
		rec.WaitingList = append(rec.WaitingList, waitingRecord{ApplicantID: w.ApplicantID, Rank: w.Rank, Status: w.Status})
	}

	return rec
}

func (rec roundRecord) toRound() *lottery.Round {
	r := &lottery.Round{
		ID:             rec.ID,
		ProjectID:      rec.ProjectID,
		Name:           rec.Name,
		StartDate:      rec.StartDate,
		EndDate:        rec.EndDate,
		TotalWinners:   rec.TotalWinners,
		AvailableUnits: rec.AvailableUnits,
		Status:         lottery.RoundStatus(rec.Status),
		Applicants:     make([]*lottery.Applicant, 0, len(rec.Applicants)),
		WaitingList:    make([]lottery.WaitingListEntry, 0, len(rec.WaitingList)),
		CreatedAt:      rec.CreatedAt,
		DrawnAt:        rec.DrawnAt,
	}

	for _, ar := range rec.Applicants {
		a := &lottery.Applicant{
			ID:            ar.ID,
			Name:          ar.Name,
			Phone:         ar.Phone,
			Email:         ar.Email,
			PriorityGroup: lottery.PriorityGroup(ar.PriorityGroup),
			Profile: lottery.ApplicantProfile{
				Age:              ar.Profile.Age,
				FamilySize:       ar.Profile.FamilySize,
				YearsOfResidence: ar.Profile.YearsOfResidence,
				IsFirstTimeBuyer: ar.Profile.IsFirstTimeBuyer,
			},
			Preferences:     make([]lottery.Preference, 0, len(ar.Preferences)),
			Status:          lottery.ApplicantStatus(ar.Status),
			AllocatedUnitID: ar.AllocatedUnitID,
			PriorityScore:   ar.PriorityScore,
			SubmittedAt:     ar.SubmittedAt,
		}

		for _, p := range ar.Preferences {
			a.Preferences = append(a.Preferences, lottery.Preference{UnitID: p.UnitID, Rank: p.Rank})
		}

		r.Applicants = append(r.Applicants, a)
	}

	for _, w := range rec.WaitingList {
		r.WaitingList = append(r.WaitingList, lottery.WaitingListEntry{ApplicantID: w.ApplicantID, Rank: w.Rank, Status: w.Status})
	}

	return r
}

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
	"github.com/MrJamesThe3rd/oascms/internal/contract"
	"github.com/MrJamesThe3rd/oascms/internal/kv"
)

// BucketName is the kv bucket owned by the contract store.
const BucketName = "contracts"

type Store struct {
	bucket kv.Bucket
}

func New(bucket kv.Bucket) *Store {
	return &Store{bucket: bucket}
}

func (s *Store) CreateContract(ctx context.Context, c *contract.Contract) error {
	data, err := json.Marshal(toRecord(c))
	if err != nil {
		return fmt.Errorf("encoding contract: %w", err)
	}

	if err := s.bucket.Insert(ctx, c.ID.String(), data); err != nil {
		if errors.Is(err, kv.ErrExists) {
			return fmt.Errorf("contract %s: %w", c.ID, apperr.ErrConflict)
		}

		return fmt.Errorf("creating contract: %w", err)
	}

	return nil
}

func (s *Store) GetContract(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	data, err := s.bucket.Get(ctx, id.String())
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, fmt.Errorf("contract %s: %w", id, apperr.ErrNotFound)
		}

		return nil, fmt.Errorf("getting contract: %w", err)
	}

	return decode(data)
}

func (s *Store) SaveContract(ctx context.Context, c *contract.Contract) error {
	if _, err := s.GetContract(ctx, c.ID); err != nil {
		return err
	}

	data, err := json.Marshal(toRecord(c))
	if err != nil {
		return fmt.Errorf("encoding contract: %w", err)
	}

	if err := s.bucket.Put(ctx, c.ID.String(), data); err != nil {
		return fmt.Errorf("saving contract: %w", err)
	}

	return nil
}

// ListContracts returns contracts ordered by creation time. An empty projectID matches all.
func (s *Store) ListContracts(ctx context.Context, projectID string) ([]*contract.Contract, error) {
	entries, err := s.bucket.Scan(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}

	contracts := make([]*contract.Contract, 0, len(entries))

	for _, e := range entries {
		c, err := decode(e.Value)
		if err != nil {
			return nil, err
		}

		if projectID != "" && c.ProjectID != projectID {
			continue
		}

		contracts = append(contracts, c)
	}

	sort.SliceStable(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.Before(contracts[j].CreatedAt)
	})

	return contracts, nil
}

func decode(data []byte) (*contract.Contract, error) {
	var rec contractRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding contract: %w", err)
	}

	return rec.toContract(), nil
}

type contractRecord struct {
	ID               uuid.UUID        `json:"id"`
	ProjectID        string           `json:"projectId"`
	UnitNumber       string           `json:"unitNumber"`
	CustomerName     string           `json:"customerName"`
	TotalAmount      int64            `json:"totalAmount"`
	Status           string           `json:"status"`
	ContractDate     time.Time        `json:"contractDate"`
	PaymentSchedules []scheduleRecord `json:"paymentSchedules"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        *time.Time       `json:"updatedAt,omitempty"`
}

type scheduleRecord struct {
	ID            uuid.UUID `json:"id"`
	StageType     string    `json:"stageType"`
	InstallmentNo int       `json:"installmentNo"`
	Name          string    `json:"name"`
	DueDate       time.Time `json:"dueDate"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
}

func toRecord(c *contract.Contract) contractRecord {
	rec := contractRecord{
		ID:               c.ID,
		ProjectID:        c.ProjectID,
		UnitNumber:       c.UnitNumber,
		CustomerName:     c.CustomerName,
		TotalAmount:      c.TotalAmount,
		Status:           string(c.Status),
		ContractDate:     c.ContractDate,
		PaymentSchedules: make([]scheduleRecord, 0, len(c.PaymentSchedules)),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}

	for _, s := range c.PaymentSchedules {
		rec.PaymentSchedules = append(rec.PaymentSchedules, scheduleRecord{
			ID:            s.ID,
			StageType:     string(s.StageType),
			InstallmentNo: s.InstallmentNo,
			Name:          s.Name,
			DueDate:       s.DueDate,
			Amount:        s.Amount,
			Status:        string(s.Status),
		})
	}

	return rec
}

func (rec contractRecord) toContract() *contract.Contract {
	c := &contract.Contract{
		ID:               rec.ID,
		ProjectID:        rec.ProjectID,
		UnitNumber:       rec.UnitNumber,
		CustomerName:     rec.CustomerName,
		TotalAmount:      rec.TotalAmount,
		Status:           contract.Status(rec.Status),
		ContractDate:     rec.ContractDate,
		PaymentSchedules: make([]contract.Schedule, 0, len(rec.PaymentSchedules)),
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}

	for _, s := range rec.PaymentSchedules {
		c.PaymentSchedules = append(c.PaymentSchedules, contract.Schedule{
			ID:            s.ID,
			StageType:     contract.StageType(s.StageType),
			InstallmentNo: s.InstallmentNo,
			Name:          s.Name,
			DueDate:       s.DueDate,
			Amount:        s.Amount,
			Status:        contract.ScheduleStatus(s.Status),
		})
	}

	return c
}

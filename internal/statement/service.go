package statement

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/oascms/internal/contract"
	"github.com/MrJamesThe3rd/oascms/internal/money"
	"github.com/MrJamesThe3rd/oascms/internal/payment"
)

// Contracts looks up contracts by id.
type Contracts interface {
	Get(ctx context.Context, id uuid.UUID) (*contract.Contract, error)
}

// Reconciler produces the ledger-derived report of a contract.
type Reconciler interface {
	Reconcile(ctx context.Context, contractID uuid.UUID) (*payment.Report, error)
}

// Statement is a rendered contract statement.
type Statement struct {
	Contract *contract.Contract
	Report   *payment.Report
	Body     string
}

// Service renders contract statements and writes them to disk.
type Service struct {
	contracts  Contracts
	reconciler Reconciler
	currency   string
}

// NewService creates a new statement Service. Amounts are labelled with currency.
func NewService(contracts Contracts, reconciler Reconciler, currency string) *Service {
	return &Service{
		contracts:  contracts,
		reconciler: reconciler,
		currency:   currency,
	}
}

// Generate builds the statement of a contract from its reconciliation report.
func (s *Service) Generate(ctx context.Context, contractID uuid.UUID) (*Statement, error) {
	c, err := s.contracts.Get(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("getting contract: %w", err)
	}

	report, err := s.reconciler.Reconcile(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("reconciling contract: %w", err)
	}

	return &Statement{
		Contract: c,
		Report:   report,
		Body:     Render(c, report, s.currency),
	}, nil
}

// Write generates the statement of a contract into outputDir and returns the file path.
func (s *Service) Write(ctx context.Context, contractID uuid.UUID, outputDir string) (string, error) {
	st, err := s.Generate(ctx, contractID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, filename(st.Contract, st.Report.AsOf))

	if err := os.WriteFile(path, []byte(st.Body), 0o644); err != nil {
		return "", fmt.Errorf("writing statement: %w", err)
	}

	return path, nil
}

// Render formats a reconciliation report as a plain-text statement, one installment per line.
func Render(c *contract.Contract, report *payment.Report, currency string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Contract %s\n", c.ID)
	fmt.Fprintf(&sb, "Unit %s | %s | %s\n", c.UnitNumber, c.CustomerName, c.Status)
	fmt.Fprintf(&sb, "As of %s\n\n", report.AsOf.Format(time.DateOnly))

	for _, line := range report.Lines {
		fmt.Fprintf(&sb, "* %s | %s | %s %s | paid %s | %s\n",
			line.Schedule.DueDate.Format(time.DateOnly),
			line.Schedule.Name,
			money.Format(line.Schedule.Amount), currency,
			money.Format(line.Paid),
			line.Status,
		)
	}

	fmt.Fprintf(&sb, "\nTotal %s %s | paid %s (%.2f%%) | outstanding %s\n",
		money.Format(report.TotalAmount), currency,
		money.Format(report.TotalPaid), report.PaidPercent,
		money.Format(report.TotalOutstanding),
	)

	if report.NextDue != nil {
		fmt.Fprintf(&sb, "Next due %s on %s: %s\n",
			report.NextDue.Schedule.Name,
			report.NextDue.Schedule.DueDate.Format(time.DateOnly),
			money.Format(report.NextDue.Outstanding),
		)
	}

	if report.OverdueCount > 0 {
		fmt.Fprintf(&sb, "Overdue installments: %d\n", report.OverdueCount)
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(&sb, "! %s\n", w.Message)
	}

	return sb.String()
}

// filename is YYYYMMDD_<unit>_<contract id prefix>.txt with the unit sanitised for the filesystem.
func filename(c *contract.Contract, asOf time.Time) string {
	safeUnit := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, c.UnitNumber)

	return fmt.Sprintf("%s_%s_%s.txt", asOf.Format("20060102"), safeUnit, c.ID.String()[:8])
}

package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/contract"
)

func (a *app) contractCommands() map[string]func(context.Context, []string) error {
	return map[string]func(context.Context, []string) error{
		"create":    a.contractCreate,
		"show":      a.contractShow,
		"list":      a.contractList,
		"schedules": a.contractSchedules,
		"status":    a.contractStatus,
		"reconcile": a.contractReconcile,
		"statement": a.contractStatement,
	}
}

func (a *app) contractCreate(ctx context.Context, args []string) error {
	fs := newFlagSet("contract create")
	project := fs.String("project", "", "project id")
	unit := fs.String("unit", "", "unit number")
	customer := fs.String("customer", "", "customer name")
	amount := fs.String("amount", "", "total amount, e.g. 1,000,000.00")
	date := fs.String("date", "", "contract date (YYYY-MM-DD), defaults to today")
	skip := fs.Bool("skip-schedules", false, "create without a payment plan")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := required("amount", *amount); err != nil {
		return err
	}

	total, err := parseAmount("amount", *amount)
	if err != nil {
		return err
	}

	contractDate, err := parseDate("date", *date)
	if err != nil {
		return err
	}

	c, err := a.contracts.Create(ctx, contract.CreateParams{
		ProjectID:     *project,
		UnitNumber:    *unit,
		CustomerName:  *customer,
		TotalAmount:   total,
		ContractDate:  contractDate,
		SkipSchedules: *skip,
	})
	if err != nil {
		return err
	}

	return a.print(newContractView(c))
}

func (a *app) contractShow(ctx context.Context, args []string) error {
	id, err := a.contractFlag("contract show", args)
	if err != nil {
		return err
	}

	c, err := a.contracts.Get(ctx, id)
	if err != nil {
		return err
	}

	return a.print(newContractView(c))
}

func (a *app) contractList(ctx context.Context, args []string) error {
	fs := newFlagSet("contract list")
	project := fs.String("project", "", "project id, empty for all")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	contracts, err := a.contracts.List(ctx, *project)
	if err != nil {
		return fmt.Errorf("listing contracts: %w", err)
	}

	views := make([]contractView, 0, len(contracts))
	for _, c := range contracts {
		views = append(views, newContractView(c))
	}

	return a.print(views)
}

func (a *app) contractSchedules(ctx context.Context, args []string) error {
	id, err := a.contractFlag("contract schedules", args)
	if err != nil {
		return err
	}

	c, err := a.contracts.GenerateSchedules(ctx, id)
	if err != nil {
		return err
	}

	return a.print(newContractView(c))
}

func (a *app) contractStatus(ctx context.Context, args []string) error {
	fs := newFlagSet("contract status")
	contractFlag := fs.String("contract", "", "contract id")
	to := fs.String("to", "", "new status (active, completed, terminated)")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	id, err := parseID("contract", *contractFlag)
	if err != nil {
		return err
	}

	status, err := contract.ParseStatus(*to)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	c, err := a.contracts.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}

	return a.print(newContractView(c))
}

func (a *app) contractReconcile(ctx context.Context, args []string) error {
	id, err := a.contractFlag("contract reconcile", args)
	if err != nil {
		return err
	}

	report, err := a.payments.Reconcile(ctx, id)
	if err != nil {
		return err
	}

	return a.print(newReportView(report))
}

func (a *app) contractStatement(ctx context.Context, args []string) error {
	fs := newFlagSet("contract statement")
	contractFlag := fs.String("contract", "", "contract id")
	dir := fs.String("dir", a.cfg.App.StatementDir, "output directory")
	stdout := fs.Bool("stdout", false, "print the statement instead of writing a file")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	id, err := parseID("contract", *contractFlag)
	if err != nil {
		return err
	}

	if *stdout {
		st, err := a.statements.Generate(ctx, id)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(a.out, st.Body)

		return err
	}

	path, err := a.statements.Write(ctx, id, *dir)
	if err != nil {
		return err
	}

	return a.print(map[string]string{"contractId": id.String(), "path": path})
}

func (a *app) contractFlag(name string, args []string) (uuid.UUID, error) {
	fs := newFlagSet(name)
	contractFlag := fs.String("contract", "", "contract id")

	if err := parseFlags(fs, args); err != nil {
		return uuid.Nil, err
	}

	return parseID("contract", *contractFlag)
}

package main

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/oascms/internal/payment"
)

func (a *app) paymentCommands() map[string]func(context.Context, []string) error {
	return map[string]func(context.Context, []string) error{
		"record": a.paymentRecord,
		"list":   a.paymentList,
	}
}

func (a *app) paymentRecord(ctx context.Context, args []string) error {
	fs := newFlagSet("payment record")
	contractFlag := fs.String("contract", "", "contract id")
	scheduleFlag := fs.String("schedule", "", "installment id, omit to credit the first deposit")
	amount := fs.String("amount", "", "amount paid")
	currency := fs.String("currency", "", "ISO currency code, defaults to DEFAULT_CURRENCY")
	date := fs.String("date", "", "payment date (YYYY-MM-DD), defaults to today")
	method := fs.String("method", "", "transfer, cash, cheque or card")
	payer := fs.String("payer", "", "payer name")
	reference := fs.String("reference", "", "bank or receipt reference")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	contractID, err := parseID("contract", *contractFlag)
	if err != nil {
		return err
	}

	scheduleID, err := parseOptionalID("schedule", *scheduleFlag)
	if err != nil {
		return err
	}

	if err := required("amount", *amount); err != nil {
		return err
	}

	cents, err := parseAmount("amount", *amount)
	if err != nil {
		return err
	}

	paymentDate, err := parseDate("date", *date)
	if err != nil {
		return err
	}

	p, err := a.payments.Record(ctx, payment.RecordParams{
		ContractID:  contractID,
		ScheduleID:  scheduleID,
		Amount:      cents,
		Currency:    *currency,
		PaymentDate: paymentDate,
		Method:      payment.Method(*method),
		PayerName:   *payer,
		Reference:   *reference,
	})
	if err != nil {
		return err
	}

	return a.print(newPaymentView(p))
}

func (a *app) paymentList(ctx context.Context, args []string) error {
	fs := newFlagSet("payment list")
	contractFlag := fs.String("contract", "", "contract id")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	contractID, err := parseID("contract", *contractFlag)
	if err != nil {
		return err
	}

	payments, err := a.payments.List(ctx, contractID)
	if err != nil {
		return fmt.Errorf("listing payments: %w", err)
	}

	views := make([]paymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, newPaymentView(p))
	}

	return a.print(views)
}

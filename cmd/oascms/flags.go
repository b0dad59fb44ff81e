package main

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/money"
)

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("%s: %v", fs.Name(), err)
	}

	return nil
}

func parseID(flag, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, apperr.Invalid("--%s is required", flag)
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperr.Invalid("--%s: %v", flag, err)
	}

	return id, nil
}

func parseOptionalID(flag, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}

	id, err := parseID(flag, value)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

// parseDate accepts YYYY-MM-DD. An empty value yields the zero time.
func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, apperr.Invalid("--%s: expected YYYY-MM-DD, got %q", flag, value)
	}

	return t, nil
}

func parseAmount(flag, value string) (int64, error) {
	cents, err := money.Parse(value)
	if err != nil {
		return 0, apperr.Invalid("--%s: %v", flag, err)
	}

	return cents, nil
}

func required(flag, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Invalid("--%s is required", flag)
	}

	return nil
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.DateOnly)
}

func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return id.String()
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/config"
)

const usage = `usage: oascms <group> <command> [flags]

  round    open | apply | close | draw | show | list
  contract create | show | list | schedules | status | reconcile | statement
  payment  record | list
`

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		writeError(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, args []string, out io.Writer) (err error) {
	if len(args) < 2 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, out)
	if err != nil {
		return err
	}

	defer func() {
		err = multierr.Append(err, a.Close())
	}()

	return a.dispatch(ctx, args)
}

var errUsage = errors.New(usage)

func writeError(w io.Writer, err error) {
	if errors.Is(err, errUsage) {
		fmt.Fprint(w, usage)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"code":  string(apperr.CodeOf(err)),
	})
}

func exitCode(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidInput, apperr.CodeInvalidState, apperr.CodeConflict:
		return 2
	case apperr.CodeNotFound:
		return 3
	}

	return 1
}

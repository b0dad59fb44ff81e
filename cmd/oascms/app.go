package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/MrJamesThe3rd/oascms/internal/config"
	"github.com/MrJamesThe3rd/oascms/internal/contract"
	contractStore "github.com/MrJamesThe3rd/oascms/internal/contract/store"
	"github.com/MrJamesThe3rd/oascms/internal/database"
	"github.com/MrJamesThe3rd/oascms/internal/kv"
	"github.com/MrJamesThe3rd/oascms/internal/logger"
	"github.com/MrJamesThe3rd/oascms/internal/lottery"
	lotteryStore "github.com/MrJamesThe3rd/oascms/internal/lottery/store"
	"github.com/MrJamesThe3rd/oascms/internal/metrics"
	"github.com/MrJamesThe3rd/oascms/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/oascms/internal/payment/store"
	"github.com/MrJamesThe3rd/oascms/internal/statement"
)

type app struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
	out      io.Writer
	closers  []io.Closer

	lottery    *lottery.Service
	contracts  *contract.Service
	payments   *payment.Service
	statements *statement.Service
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	log := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       logger.ParseLevel(cfg.Log.Level),
		Console:     cfg.Log.Format == "console",
	})

	a := &app{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
		out:      out,
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	recorder := metrics.New(a.registry)

	a.lottery = lottery.NewService(
		lotteryStore.New(store.Bucket(lotteryStore.BucketName)),
		lottery.WithLogger(log),
		lottery.WithMetrics(recorder),
	)
	a.contracts = contract.NewService(
		contractStore.New(store.Bucket(contractStore.BucketName)),
		contract.WithLogger(log),
	)
	a.payments = payment.NewService(
		paymentStore.New(store.Bucket(paymentStore.BucketName)),
		a.contracts,
		payment.WithLogger(log),
		payment.WithMetrics(recorder),
		payment.WithDefaultCurrency(cfg.App.DefaultCurrency),
	)
	a.statements = statement.NewService(a.contracts, a.payments, cfg.App.DefaultCurrency)

	return a, nil
}

// openStore connects the configured kv backend. Postgres is migrated first when enabled.
func (a *app) openStore(ctx context.Context) (kv.Store, error) {
	switch a.cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.New(ctx, a.cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		a.closers = append(a.closers, db)

		if a.cfg.DB.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				return nil, multierr.Append(fmt.Errorf("migrating database: %w", err), db.Close())
			}
		}

		return kv.NewPostgres(db), nil

	case config.DriverRedis:
		client, err := database.NewRedis(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}

		a.closers = append(a.closers, client)

		return kv.NewRedis(client, a.cfg.Redis.KeyPrefix), nil

	default:
		a.log.Warn(ctx, "using in-memory store, nothing will be persisted", nil)
		return kv.NewMemory(), nil
	}
}

// Close flushes metrics to the configured textfile and releases storage connections.
func (a *app) Close() error {
	var err error

	if path := a.cfg.Metrics.Textfile; path != "" {
		if werr := prometheus.WriteToTextfile(path, a.registry); werr != nil {
			err = multierr.Append(err, fmt.Errorf("writing metrics textfile: %w", werr))
		}
	}

	for _, c := range a.closers {
		err = multierr.Append(err, c.Close())
	}

	return err
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}

	group, cmd, rest := args[0], args[1], args[2:]

	var handlers map[string]func(context.Context, []string) error

	switch group {
	case "round":
		handlers = a.roundCommands()
	case "contract":
		handlers = a.contractCommands()
	case "payment":
		handlers = a.paymentCommands()
	default:
		return errUsage
	}

	h, ok := handlers[cmd]
	if !ok {
		return errUsage
	}

	return h(ctx, rest)
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/sweetshop/sweetshop/internal/adapters/inbound/http"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/events"
	"github.com/sweetshop/sweetshop/internal/application"
	"github.com/sweetshop/sweetshop/internal/domain"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr    string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serve the REST API and, unless the broker is \"none\", relay recorded order events to the configured broker.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.bootstrap(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.cfg.CheckProduction(); err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if a.cfg.Database.Driver != domain.StorePostgres {
				a.logger.Warn("using the in-memory store; data is lost on exit")
			}
			if migrate {
				if err := a.store.migrate(ctx); err != nil {
					return fmt.Errorf("migrating: %w", err)
				}
			}

			publisher, err := events.New(a.cfg.Events, a.logger)
			if err != nil {
				return fmt.Errorf("connecting to %s broker: %w", a.cfg.Events.Broker, err)
			}

			// An in-memory outbox is lost on exit anyway, so drain it rather
			// than let it grow when no broker is configured.
			if publisher == nil && a.cfg.Database.Driver != domain.StorePostgres {
				publisher = events.NewDiscardPublisher()
			}

			var relays sync.WaitGroup
			if publisher != nil {
				defer publisher.Close()
				relay := application.NewOutboxRelay(a.store.outbox, publisher,
					a.cfg.Events.RelayInterval, a.cfg.Events.BatchSize,
					application.WithLogger(a.logger), application.WithRecorder(a.metrics))
				relays.Add(1)
				go func() {
					defer relays.Done()
					relay.Run(ctx)
				}()
			}

			handlerOpts := httpadapter.Options{Logger: a.logger}
			if a.cfg.Metrics.Enabled {
				handlerOpts.Observer = a.metrics
				handlerOpts.Metrics = a.metrics.Handler()
			}
			handler := httpadapter.NewHandler(httpadapter.Services{
				Orders:     a.orders,
				Products:   a.products,
				Categories: a.categories,
				Auth:       a.auth,
				Dashboard:  a.dashboard,
				Health:     a.store.health,
			}, a.cfg, handlerOpts)

			err = httpadapter.NewServer(handler, a.cfg.Server, a.logger).Run(ctx)
			stop()
			relays.Wait()
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the database schema before serving")

	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.bootstrap(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.Database.Driver != domain.StorePostgres {
				fmt.Fprintln(cmd.OutOrStdout(), "memory driver: nothing to migrate")
				return nil
			}
			if err := a.store.migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

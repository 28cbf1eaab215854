package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sweetshop/sweetshop/internal/adapters/outbound/auth"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/memory"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/metrics"
	"github.com/sweetshop/sweetshop/internal/adapters/outbound/postgres"
	"github.com/sweetshop/sweetshop/internal/application"
	"github.com/sweetshop/sweetshop/internal/domain"
)

// storage is one opened persistence backend.
type storage struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	orders     domain.OrderRepository
	users      domain.UserRepository
	outbox     domain.OutboxStore
	health     domain.Pinger
	migrate    func(context.Context) error
	close      func()
}

type storeOpener func(ctx context.Context, cfg domain.DatabaseConfig) (*storage, error)

func openStorage(ctx context.Context, cfg domain.DatabaseConfig) (*storage, error) {
	switch cfg.Driver {
	case domain.StorePostgres:
		pool, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		orders := postgres.NewOrderRepository(pool)
		return &storage{
			products:   postgres.NewProductRepository(pool),
			categories: postgres.NewCategoryRepository(pool),
			orders:     orders,
			users:      postgres.NewUserRepository(pool),
			outbox:     orders,
			health:     pool,
			migrate:    func(ctx context.Context) error { return postgres.Migrate(ctx, pool) },
			close:      pool.Close,
		}, nil
	case "", domain.StoreMemory:
		return memoryStorage(memory.NewStore()), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func memoryStorage(s *memory.Store) *storage {
	return &storage{
		products:   s.Products,
		categories: s.Categories,
		orders:     s.Orders,
		users:      s.Users,
		outbox:     s.Orders,
		health:     s,
		migrate:    func(context.Context) error { return nil },
		close:      s.Close,
	}
}

func fixedMemoryStore(s *memory.Store) storeOpener {
	return func(context.Context, domain.DatabaseConfig) (*storage, error) {
		return memoryStorage(s), nil
	}
}

// app is the wired object graph a command runs against.
type app struct {
	cfg     domain.AppConfig
	logger  *slog.Logger
	store   *storage
	metrics *metrics.Registry

	orders     *application.OrderService
	products   *application.ProductService
	categories *application.CategoryService
	auth       *application.AuthService
	dashboard  *application.DashboardService
}

// bootstrap loads config, opens the store and builds the services. Logs go
// to logOut so command output on stdout stays clean.
func (o *rootOptions) bootstrap(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := o.loader.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log, logOut)

	store, err := o.openStore(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Database.Driver, err)
	}

	issuer, err := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		store.close()
		return nil, err
	}

	reg := metrics.New()
	opts := []application.Option{application.WithLogger(logger), application.WithRecorder(reg)}
	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		metrics:    reg,
		orders:     application.NewOrderService(store.products, store.orders, opts...),
		products:   application.NewProductService(store.products, opts...),
		categories: application.NewCategoryService(store.categories, opts...),
		auth:       application.NewAuthService(store.users, auth.NewBcryptHasher(0), issuer, opts...),
		dashboard:  application.NewDashboardService(store.orders),
	}, nil
}

func (a *app) close() { a.store.close() }

func newLogger(cfg domain.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts))
}

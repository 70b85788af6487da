package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gorodskoybaton/bot/internal/catalog"
	"gorodskoybaton/bot/internal/client"
	"gorodskoybaton/bot/internal/config"
	"gorodskoybaton/bot/internal/flow"
	"gorodskoybaton/bot/internal/ledger"
	"gorodskoybaton/bot/internal/notify"
	"gorodskoybaton/bot/internal/repository"
	"gorodskoybaton/bot/internal/session"
	"gorodskoybaton/bot/internal/telegram"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Client   client.StorefrontClient
	Catalog  *catalog.Store
	Sessions session.Store
	Machine  *flow.Machine
	Bot      *telegram.Bot

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	storefront := client.NewStorefrontClient(cfg.Site)
	container.Client = storefront

	catalogStore := catalog.NewStore(storefront, cfg.Site.CacheFile,
		time.Duration(cfg.Site.CacheTTL)*time.Second)
	container.Catalog = catalogStore

	sessions, err := container.buildSessionStore(cfg.Session)
	if err != nil {
		return nil, err
	}
	container.Sessions = sessions

	api, err := telegram.NewAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	var archive repository.OrderRepository
	if cfg.Database.Enabled {
		db, err := pgxpool.New(context.Background(),
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		container.db = db
		archive = repository.NewOrderRepository(db)
	}

	operator := telegram.NewOperatorNotifier(api, cfg.Telegram.AdminID)
	sheetLedger := ledger.NewAppender(cfg.Ledger)

	// nil interface values must stay nil inside the dispatcher, so the
	// typed nils from the constructors are unwrapped here.
	var operatorTarget notify.OperatorNotifier
	if operator != nil {
		operatorTarget = operator
	}
	var ledgerTarget notify.LedgerAppender
	if sheetLedger != nil {
		ledgerTarget = sheetLedger
	}
	dispatcher := notify.NewDispatcher(operatorTarget, ledgerTarget, archive)

	machine := flow.NewMachine(catalogStore, sessions, dispatcher, cfg.Delivery, cfg.Telegram.Currency)
	container.Machine = machine

	container.Bot = telegram.NewBot(api, cfg.Telegram, machine)

	return container, nil
}

func (c *Container) buildSessionStore(cfg config.SessionConfig) (session.Store, error) {
	if cfg.Backend != "redis" {
		return session.NewMemoryStore(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("Connected to Redis successfully")

	c.redis = rdb
	return session.NewRedisStore(rdb, time.Duration(cfg.TTL)*time.Second), nil
}

// Run refreshes the catalog, then serves chat updates while keeping the
// catalog fresh in the background. The initial refresh runs to
// completion before the first update is handled, and later refreshes
// never touch the update-handling path.
func (c *Container) Run(ctx context.Context) error {
	c.Catalog.Refresh(ctx)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Bot.Run(ctx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(c.Config.Site.CacheTTL) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				c.Catalog.Refresh(ctx)
			}
		}
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return err
		}
	}

	log.Info("Container shut down successfully")
	return nil
}

// Package app wires configuration into storage, the sync lock and the
// services. Both the HTTP server and the one-shot sync command build on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/guest-marketing/internal/cloudbeds"
	"github.com/ignite/guest-marketing/internal/config"
	"github.com/ignite/guest-marketing/internal/pkg/distlock"
	"github.com/ignite/guest-marketing/internal/pkg/httpretry"
	"github.com/ignite/guest-marketing/internal/pkg/logger"
	"github.com/ignite/guest-marketing/internal/repository/memory"
	"github.com/ignite/guest-marketing/internal/repository/postgres"
	"github.com/ignite/guest-marketing/internal/service/audience"
	"github.com/ignite/guest-marketing/internal/service/campaign"
	"github.com/ignite/guest-marketing/internal/service/contact"
	"github.com/ignite/guest-marketing/internal/service/reservation"
)

// App holds the wired services and the connections behind them. DB and
// Redis are nil when not configured.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client

	Reservations *reservation.Service
	Contacts     *contact.Service
	Audience     *audience.Service
	Campaigns    *campaign.Service
}

type stores struct {
	reservations reservation.Repository
	contacts     contact.Repository
	campaigns    campaign.Repository
}

// New connects to the configured backends and builds the services. A
// configured but unreachable database is fatal; an unreachable Redis only
// downgrades the sync lock.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	var st stores
	if cfg.Database.URL != "" {
		db, err := openPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.DB = db
		st = stores{
			reservations: postgres.NewReservationRepo(db),
			contacts:     postgres.NewContactRepo(db),
			campaigns:    postgres.NewCampaignRepo(db),
		}
		logger.Info("storage ready", "driver", "postgres")
	} else {
		st = stores{
			reservations: memory.NewReservationRepo(),
			contacts:     memory.NewContactRepo(),
			campaigns:    memory.NewCampaignRepo(),
		}
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	a.Redis = openRedis(ctx, cfg.Redis.URL)

	lockKey := "sync:cloudbeds:" + cfg.Cloudbeds.PropertyID
	lock := distlock.NewLock(a.Redis, a.DB, lockKey, cfg.Sync.LockTTL())

	httpClient := httpretry.NewRetryClient(&http.Client{Timeout: cfg.Cloudbeds.Timeout()}, cfg.Cloudbeds.MaxRetries)
	client := cloudbeds.NewClient(cfg.Cloudbeds, httpClient)

	a.Contacts = contact.NewService(st.contacts)
	a.Reservations = reservation.NewService(st.reservations, a.Contacts, client, lock)
	a.Audience = audience.NewService(a.Reservations, a.Contacts)
	a.Campaigns = campaign.NewService(st.campaigns, a.Audience, a.Contacts)
	return a, nil
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// openRedis returns nil when url is empty or the server does not answer.
// A bare host:port is accepted as well as a redis:// URL.
func openRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		logger.Info("redis not configured, sync lock falls back to postgres or process-local")
		return nil
	}

	var client *redis.Client
	if opts, err := redis.ParseURL(url); err == nil {
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{Addr: url})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, sync lock falls back", "error", err)
		client.Close()
		return nil
	}
	logger.Info("redis connected, distributed sync lock enabled")
	return client
}

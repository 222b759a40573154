package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/apigeo/carbone-cli/internal/landcover"
	"github.com/apigeo/carbone-cli/internal/session"
)

func initStore(ctx context.Context) (landcover.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.Path
		if dsn == "" {
			dsn = "carbone.db"
		}
		return landcover.NewSQLite(dsn)
	case "postgres":
		return landcover.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// sessionStore picks the context backend: Postgres deployments persist
// conversations, everything else keeps them in process memory.
func sessionStore(store landcover.Store) session.Store {
	if pg, ok := store.(*landcover.PostgresStore); ok {
		return session.NewPostgres(pg.Pool())
	}
	return session.NewMemory(time.Duration(cfg.Server.SessionTTLMinutes) * time.Minute)
}

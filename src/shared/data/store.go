package data

import (
	"context"
	"log"

	"github.com/savia-platform/savia-ledger/src/shared/store"
)

// StoreConfig selects the ledger record backend and carries the connection
// settings each backend needs.
type StoreConfig struct {
	Backend     string
	MySQLDSN    string
	PostgresDSN string
	RedisURL    string
	DynamoTable string
}

// MustStore opens the configured backend and exits on any bootstrap error.
// The memory backend is for tests and local runs only; it forgets everything
// on restart.
func MustStore(ctx context.Context, cfg StoreConfig) store.Store {
	switch cfg.Backend {
	case "", "memory":
		log.Printf("store: using in-memory backend (records are not persisted)")
		return store.NewMemory()
	case "mysql":
		s, err := store.NewMySQL(MustMySQL(cfg.MySQLDSN))
		if err != nil {
			log.Fatalf("mysql store: %v", err)
		}
		return s
	case "postgres":
		s, err := store.NewPostgres(MustPostgres(cfg.PostgresDSN))
		if err != nil {
			log.Fatalf("postgres store: %v", err)
		}
		return s
	case "redis":
		return store.NewRedis(MustRedis(cfg.RedisURL))
	case "dynamodb":
		return store.NewDynamo(MustDynamo(ctx), cfg.DynamoTable)
	default:
		log.Fatalf("store: unknown backend %q", cfg.Backend)
		return nil
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/savia-platform/savia-ledger/src/api/config"
	"github.com/savia-platform/savia-ledger/src/api/webserver"
	"github.com/savia-platform/savia-ledger/src/shared/data"
	"github.com/savia-platform/savia-ledger/src/shared/events"
	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using system environment")
	}
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := data.MustStore(ctx, data.StoreConfig{
		Backend:     cfg.StoreBackend,
		MySQLDSN:    cfg.MySQLDSN,
		PostgresDSN: cfg.PostgresDSN,
		RedisURL:    cfg.RedisURL,
		DynamoTable: cfg.DynamoTable,
	})
	rdb := data.MustRedis(cfg.RedisURL)

	eng, err := ledger.New(ledger.Options{
		Store:     st,
		Authorize: ledger.ContextAuthorizer{},
		Events:    events.NewRedis(rdb),
	})
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	router := webserver.New(cfg, eng, rdb)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("Savia ledger API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}

package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/savia-platform/savia-ledger/src/shared/data"
	"github.com/savia-platform/savia-ledger/src/shared/events"
)

// LedgerEvent is the read-model row, one per published engine event. The
// common fields are lifted into columns; everything else stays in Attrs as
// JSON.
type LedgerEvent struct {
	ID         uint64 `gorm:"primaryKey"`
	StreamID   string `gorm:"size:64;uniqueIndex"`
	Name       string `gorm:"size:64;index"`
	CampaignID string `gorm:"size:64;index"`
	EmittedAt  int64  `gorm:"index"`
	Attrs      string `gorm:"type:text"`
}

func (LedgerEvent) TableName() string { return "ledger_events" }

// parseEvent maps one stream message onto a read-model row.
func parseEvent(msg redis.XMessage) (LedgerEvent, error) {
	row := LedgerEvent{StreamID: msg.ID}
	attrs := make(map[string]string, len(msg.Values))
	for k, v := range msg.Values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		switch k {
		case "event":
			row.Name = s
		case "time":
			if t, err := strconv.ParseInt(s, 10, 64); err == nil {
				row.EmittedAt = t
			}
		case "campaignId":
			row.CampaignID = s
			attrs[k] = s
		default:
			attrs[k] = s
		}
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return row, err
	}
	row.Attrs = string(b)
	return row, nil
}

// storeEvent inserts the row, skipping stream ids already seen so replays
// after a missed cursor save stay idempotent.
func storeEvent(db *gorm.DB, msg redis.XMessage) error {
	row, err := parseEvent(msg)
	if err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func run(ctx context.Context, rdb *redis.Client, db *gorm.DB) {
	lastID, err := data.GetCursor(ctx, rdb)
	if err != nil {
		log.Printf("cursor: %v, starting from 0", err)
		lastID = "0"
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			streams, err := rdb.XRead(ctx, &redis.XReadArgs{
				Streams: []string{events.Stream, lastID},
				Count:   10,
				Block:   5 * time.Second,
			}).Result()

			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					log.Printf("read stream: %v", err)
				}
				continue
			}

			for _, stream := range streams {
				for _, msg := range stream.Messages {
					if err := storeEvent(db, msg); err != nil {
						log.Printf("store event %s: %v", msg.ID, err)
					}
					lastID = msg.ID
				}
			}

			if err := data.SetCursor(ctx, rdb, lastID); err != nil {
				log.Printf("save cursor: %v", err)
			}
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using system environment")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://127.0.0.1:6379/0"
	}
	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "savia:savia@tcp(127.0.0.1:3306)/savia?parseTime=true"
	}

	rdb := data.MustRedis(redisURL)
	db := data.MustMySQL(mysqlDSN)
	if err := db.AutoMigrate(&LedgerEvent{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	log.Printf("indexer consuming %s", events.Stream)
	run(ctx, rdb, db)
}

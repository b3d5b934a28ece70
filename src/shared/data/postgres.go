package data

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

func MustPostgres(dsn string) *sql.DB {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("postgres ping: %v", err)
	}
	return db
}

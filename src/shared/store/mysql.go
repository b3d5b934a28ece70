package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the row shape for SQL-backed stores.
type Record struct {
	K         string `gorm:"primaryKey;size:512"`
	V         []byte `gorm:"type:mediumblob;not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string { return "ledger_records" }

// MySQL persists records through gorm. Apply runs inside one transaction so a
// batch commits or rolls back as a unit.
type MySQL struct {
	db *gorm.DB
}

func NewMySQL(db *gorm.DB) (*MySQL, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &MySQL{db: db}, nil
}

func (s *MySQL) Get(ctx context.Context, k Key) ([]byte, bool, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "k = ?", k.Encode()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.V, true, nil
}

func (s *MySQL) Has(ctx context.Context, k Key) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Record{}).Where("k = ?", k.Encode()).Count(&n).Error
	return n > 0, err
}

func (s *MySQL) Set(ctx context.Context, k Key, v []byte) error {
	return s.upsert(s.db.WithContext(ctx), Put{Key: k, Value: v})
}

func (s *MySQL) Apply(ctx context.Context, puts []Put) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range puts {
			if err := s.upsert(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *MySQL) upsert(tx *gorm.DB, p Put) error {
	rec := Record{K: p.Key.Encode(), V: p.Value}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v", "updated_at"}),
	}).Create(&rec).Error
}

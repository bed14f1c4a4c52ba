package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type dbUsers struct {
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	Name   string `gorm:"not null;column:name"`
	Card   string `gorm:"column:card"`
}

func (dbUsers) TableName() string {
	return "users"
}

type dbMessages struct {
	MsgID   uint64    `gorm:"primaryKey;column:msg_id"`
	UserID  uint64    `gorm:"not null;column:user_id;index"`
	GroupID uint64    `gorm:"not null;column:group_id;index"`
	Raw     string    `gorm:"not null;column:raw"`
	Content string    `gorm:"not null;column:content"`
	Route   string    `gorm:"column:route;index"` // command name, "ai", or empty
	Failed  bool      `gorm:"column:failed"`
	Time    time.Time `gorm:"not null;column:time;index"`
}

func (dbMessages) TableName() string {
	return "messages"
}

// Record is one handled message.
type Record struct {
	MsgID   uint64
	UserID  uint64
	GroupID uint64 // 0 for private messages
	Name    string
	Card    string
	Raw     string
	Content string
	Route   string
	Failed  bool
	Time    time.Time
}

type Store struct {
	db *gorm.DB
}

// Open connects to sqlite (dsn is a file path) or postgres and migrates
// the schema.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := gdb.AutoMigrate(&dbUsers{}, &dbMessages{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: gdb}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveMessage upserts the sender and stores the message once. A message id
// that is already stored is left untouched.
func (s *Store) SaveMessage(ctx context.Context, rec Record) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := dbUsers{
			UserID: rec.UserID,
			Name:   rec.Name,
			Card:   rec.Card,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "card"}),
		}).Create(&user).Error; err != nil {
			return err
		}

		msg := dbMessages{
			MsgID:   rec.MsgID,
			UserID:  rec.UserID,
			GroupID: rec.GroupID,
			Raw:     rec.Raw,
			Content: rec.Content,
			Route:   rec.Route,
			Failed:  rec.Failed,
			Time:    rec.Time,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&msg).Error
	})
}

// RecentMessages returns up to limit messages, newest first.
func (s *Store) RecentMessages(ctx context.Context, limit int) ([]Record, error) {
	var msgs []dbMessages
	err := s.db.WithContext(ctx).
		Order("time DESC, msg_id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.UserID)
	}
	var users []dbUsers
	if len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[uint64]dbUsers, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	out := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		u := byID[m.UserID]
		out = append(out, Record{
			MsgID:   m.MsgID,
			UserID:  m.UserID,
			GroupID: m.GroupID,
			Name:    u.Name,
			Card:    u.Card,
			Raw:     m.Raw,
			Content: m.Content,
			Route:   m.Route,
			Failed:  m.Failed,
			Time:    m.Time,
		})
	}
	return out, nil
}

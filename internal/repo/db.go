package repo

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath файл БД, если DSN не задан.
const DefaultSQLitePath = "fsapi.sqlite"

// User учётная запись сотрудника.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string
	LastName     string
	Role         string `gorm:"not null"`
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Document запись любого ресурса API. Body хранит JSON как есть,
// остальные колонки извлекаются из него для фильтрации и сортировки.
type Document struct {
	ID        string `gorm:"primaryKey;size:36"`
	Resource  string `gorm:"index:idx_resource_date,priority:1;not null"`
	Date      string `gorm:"index:idx_resource_date,priority:2"`
	Status    string
	Kind      string `gorm:"index"`
	Search    string
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InitDB открывает postgres по DSN вида postgres://... (или key=value),
// иначе SQLite-файл через modernc.org/sqlite, и накатывает миграции.
func InitDB(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var dial gorm.Dialector
	switch {
	case isPostgresDSN(dsn):
		dial = postgres.Open(dsn)
	default:
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			path = DefaultSQLitePath
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: path}
	}

	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт таблицы users и documents.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Document{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

package database

import (
	"fmt"
	"log"
	"time"

	migrate "github.com/rubenv/sql-migrate"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/ytbuddy/pkg/config"
)

// NewPostgresDB creates a new PostgreSQL database connection using GORM
func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// Open connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get generic database object to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	return db, nil
}

// Migrate applies (or rolls back) migrations from dir using sql-migrate.
// max limits the number of steps; 0 means all.
func Migrate(db *gorm.DB, dir string, direction migrate.MigrationDirection, max int) (int, error) {
	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate, error: %v", err)
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, max)
	if err != nil {
		return n, fmt.Errorf("failed to apply migration, error: %v", err)
	}
	return n, nil
}

// MigrationStatus lists the migrations recorded as applied
func MigrationStatus(db *gorm.DB) ([]*migrate.MigrationRecord, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	return migrate.GetMigrationRecords(sqlDB, "postgres")
}

// AutoMigrate runs all pending migrations
func AutoMigrate(db *gorm.DB, dir string) error {
	log.Printf("🔄 Applying migrations from %s/ using sql-migrate...", dir)

	n, err := Migrate(db, dir, migrate.Up, 0)
	if err != nil {
		return err
	}

	log.Printf("✅ Applied %d migrations!\n", n)
	return nil
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✅ Database connection closed")
	return nil
}

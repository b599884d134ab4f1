package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/config"
	"github.com/codeotter0201/fullstack-lms-challenge/model"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is what the server needs from a database backend
type Storage interface {
	Init() error
	Close() error
	HealthCheck(ctx context.Context) error
	DB() *gorm.DB
}

type GORMStore struct {
	db *gorm.DB
}

var _ Storage = (*GORMStore)(nil)

// StartGORM opens the database selected by DB_DRIVER
func StartGORM(env *config.EnviornmentVariable) (*GORMStore, error) {
	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if env.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	var (
		db  *gorm.DB
		err error
	)
	switch env.DB_DRIVER {
	case "sqlite":
		db, err = OpenSQLite(env.SQLITE_PATH, gormLogger)
	case "pq":
		// Same dialect, database/sql driver registered by lib/pq
		db, err = gorm.Open(postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        postgresDSN(env),
		}), gormConfig(gormLogger))
	default:
		db, err = gorm.Open(postgres.Open(postgresDSN(env)), gormConfig(gormLogger))
	}
	if err != nil {
		log.Println("Unable to connect to database with GORM:", err)
		return nil, err
	}

	if env.DB_DRIVER != "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}

		// Connection pool settings
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Printf("Connected to %s database with GORM.", env.DB_DRIVER)

	return &GORMStore{db: db}, nil
}

// OpenSQLite opens a SQLite database. The pool is pinned to one connection so
// that writers queue instead of failing with SQLITE_BUSY, and so that
// ":memory:" databases survive between calls.
func OpenSQLite(path string, gormLogger logger.Interface) (*gorm.DB, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig(gormLogger))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}

func gormConfig(gormLogger logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger: gormLogger,
		// Unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	}
}

func postgresDSN(env *config.EnviornmentVariable) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)
}

// NewGORMStore wraps an already opened connection
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")
	if err := AutoMigrate(s.db); err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}
	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// AutoMigrate creates or updates every table, parents before children.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserRole{},
		&model.Course{},
		&model.Lesson{},
		&model.Progress{},
		&model.CoursePurchase{},
		&model.JWTTokenBlacklist{},
		&model.CronJobLog{},
	)
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the GORM handle for repositories and jobs
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

package storage

import (
	"errors"
	"os"
	"sync"

	"accessly-backend/internal/config"
	"accessly-backend/internal/util/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

var (
	db   *gorm.DB
	once sync.Once
)

// GetDb returns the shared connection pool. Components never call this
// directly; di.go wiring passes the handle into repository constructors.
func GetDb() *gorm.DB {
	once.Do(connect)
	return db
}

func connect() {
	log := logger.GetLogger()

	gormDb, err := gorm.Open(postgres.Open(config.GetEnv().DatabaseDsn), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})

	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	db = gormDb
}

// RunInTransaction executes fn inside a single database transaction:
// commit when fn returns nil, rollback on error or panic. Every mutating
// command runs through here; there is no manual commit/rollback anywhere else.
func RunInTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}

const pgUniqueViolationCode = "23505"

// UniqueViolation identifies a violated unique constraint by name, so that
// callers can match on constraint identity instead of sniffing message text.
type UniqueViolation struct {
	Constraint string
}

func AsUniqueViolation(err error) (*UniqueViolation, bool) {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return &UniqueViolation{Constraint: pgErr.ConstraintName}, true
	}

	return nil, false
}

// IsUniqueViolationOn reports whether err is a unique-constraint violation
// on the named constraint.
func IsUniqueViolationOn(err error, constraint string) bool {
	violation, ok := AsUniqueViolation(err)
	return ok && violation.Constraint == constraint
}

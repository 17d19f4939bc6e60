package db

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newGormConfig routes gorm's slow-query and error output through l at warn
// level. A nil l uses the default logger.
func newGormConfig(l *log.Logger) *gorm.Config {
	if l == nil {
		l = log.Default()
	}
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			l.WithPrefix("gorm").StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel}),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string, l *log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), newGormConfig(l))
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// NewPostgres returns a GORM DB instance backed by the pgx driver.
func NewPostgres(dsn string, l *log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), newGormConfig(l))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Open connects using the named driver ("mysql" or "postgres"). SQL
// warnings are written to l.
func Open(driver, dsn string, l *log.Logger) (*gorm.DB, error) {
	switch driver {
	case "mysql", "":
		return NewMySQL(dsn, l)
	case "postgres", "postgresql":
		return NewPostgres(dsn, l)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

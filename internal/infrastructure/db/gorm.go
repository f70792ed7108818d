package db

import (
	"fmt"
	"time"

	"coop-lending/internal/domain/adminlog"
	"coop-lending/internal/domain/approval"
	"coop-lending/internal/domain/loan"
	"coop-lending/internal/domain/member"
	"coop-lending/internal/domain/notification"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open picks the dialector for driver; dsn is a MySQL DSN or a sqlite file path.
func Open(driver, dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	switch driver {
	case DriverMySQL:
		return OpenGormWithDialector(mysql.Open(dsn), log)
	case DriverSQLite:
		return OpenGormWithDialector(sqlite.Open(dsn), log)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func OpenGormWithDialector(dial gorm.Dialector, log logrus.FieldLogger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		// pinged explicitly below
		DisableAutomaticPing: true,
		TranslateError:       true,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Info("gorm: connected")
	return db, nil
}

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&member.Member{},
		&member.Commitment{},
		&loan.Loan{},
		&loan.Guarantor{},
		&loan.Repayment{},
		&loan.Fine{},
		&notification.Notification{},
		&approval.Approval{},
		&adminlog.Entry{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

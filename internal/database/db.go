package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/config"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

var DB *gorm.DB

// Open connects to Postgres. Unique violations are translated into a
// *UniqueViolation naming the index, which the repositories rely on.
func Open(dsn string, logger logrus.FieldLogger) (*gorm.DB, error) {
	pg := dialector{&postgres.Dialector{Config: &postgres.Config{DSN: dsn}}}
	db, err := gorm.Open(pg, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		logger.WithError(err).Warn("otelgorm plugin not installed")
	}
	return db, nil
}

// Init opens the shared connection used by the handlers.
func Init(cfg *config.Config, logger logrus.FieldLogger) error {
	db, err := Open(cfg.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

func Models() []any {
	return []any{
		&models.Project{},
		&models.Warehouse{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.JobOrder{},
		&models.MRRV{},
		&models.MIRV{},
		&models.MRV{},
		&models.RFIM{},
		&models.VoucherLine{},
		&models.GatePass{},
		&models.OSDReport{},
		&models.ScrapEntry{},
		&models.Notification{},
		&models.ActivityLog{},
		&models.Attachment{},
	}
}

func Migrate(db *gorm.DB, logger logrus.FieldLogger) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	logger.Info("database migration finished")
	return nil
}

package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/modelyard/modelyard-backend/internal/platform/envutil"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "modelyard")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Profile{},
		&types.Dataset{},
		&types.Model{},
		&types.Experiment{},
	)
	if err != nil {
		return err
	}
	// Deleting a dataset or model must null the experiment reference, never
	// leave a dangling pointer.
	if err := s.db.Exec(`
		ALTER TABLE "experiments"
		DROP CONSTRAINT IF EXISTS "fk_experiments_dataset_id",
		ADD CONSTRAINT "fk_experiments_dataset_id"
		FOREIGN KEY ("dataset_id")
		REFERENCES "datasets"("id")
		ON DELETE SET NULL
	`).Error; err != nil {
		return fmt.Errorf("add fk_experiments_dataset_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "experiments"
		DROP CONSTRAINT IF EXISTS "fk_experiments_model_id",
		ADD CONSTRAINT "fk_experiments_model_id"
		FOREIGN KEY ("model_id")
		REFERENCES "models"("id")
		ON DELETE SET NULL
	`).Error; err != nil {
		return fmt.Errorf("add fk_experiments_model_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/victorgraciaweb/greelow-backend/internal/logger"
	"github.com/victorgraciaweb/greelow-backend/internal/types"
	"github.com/victorgraciaweb/greelow-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "greelow", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Conversation{},
		&types.Message{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// Messages are a composition of their conversation: deleting a
	// conversation must delete its messages.
	if err := s.db.Exec(`
		ALTER TABLE "message"
		DROP CONSTRAINT IF EXISTS "fk_message_conversation_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_message_conversation_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "message"
		ADD CONSTRAINT "fk_message_conversation_id"
		FOREIGN KEY ("conversation_id")
		REFERENCES "conversation"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_message_conversation_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "user_token"
		DROP CONSTRAINT IF EXISTS "fk_user_token_user_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_user_token_user_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "user_token"
		ADD CONSTRAINT "fk_user_token_user_id"
		FOREIGN KEY ("user_id")
		REFERENCES "user"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_user_token_user_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

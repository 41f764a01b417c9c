package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fuelbuddy/fuelbuddy-api/internal/config"
	"github.com/fuelbuddy/fuelbuddy-api/internal/logging"
	"github.com/fuelbuddy/fuelbuddy-api/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	dialector, err := buildDialector(cfg)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.L().Info().
		Str("driver", cfg.DBDriver).
		Str("host", cfg.DBHost).
		Str("database", cfg.DBName).
		Msg("database connection established")
	return nil
}

func buildDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		if cfg.DBSSLRootCert != "" {
			dsn += fmt.Sprintf(" sslmode=verify-full sslrootcert=%s", cfg.DBSSLRootCert)
		} else {
			dsn += " sslmode=disable"
		}
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
}

func Migrate() error {
	logging.L().Info().Msg("running database migrations")
	err := DB.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignee{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logging.L().Info().Msg("database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}

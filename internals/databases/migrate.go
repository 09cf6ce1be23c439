package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tamilvalam_backend/internals/configs"
	initiativeModel "tamilvalam_backend/internals/features/initiatives/model"
	authModel "tamilvalam_backend/internals/features/users/auth/model"
	userModel "tamilvalam_backend/internals/features/users/user/model"

	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&initiativeModel.Initiative{},
		&initiativeModel.InitiativeImage{},
	}
}

// Migrate brings the schema up to date. Postgres goes through goose with the
// embedded SQL files; mysql and sqlite use AutoMigrate.
func Migrate(db *gorm.DB, cfg configs.DBConfig, log *zap.Logger) error {
	if strings.ToLower(cfg.Driver) != "postgres" {
		if err := db.AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration finished", zap.String("driver", cfg.Driver))
		return nil
	}
	return RunGoose(cfg, "up", log)
}

// RunGoose runs a goose command (up | down | status | version) against Postgres.
func RunGoose(cfg configs.DBConfig, command string, log *zap.Logger) error {
	const op = "database.migrations"

	if strings.ToLower(cfg.Driver) != "postgres" {
		return fmt.Errorf("%s: goose migrations need the postgres driver, got %q", op, cfg.Driver)
	}

	sqlDB, err := sql.Open("postgres", PostgresDSN(cfg))
	if err != nil {
		return fmt.Errorf("%s: open: %w", op, err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch command {
	case "", "up":
		err = goose.Up(sqlDB, migrationsDir)
		if errors.Is(err, goose.ErrNoNextVersion) {
			log.Info("no migrations to apply")
			return nil
		}
	case "down":
		err = goose.Down(sqlDB, migrationsDir)
	case "status":
		err = goose.Status(sqlDB, migrationsDir)
	case "version":
		err = goose.Version(sqlDB, migrationsDir)
	default:
		return fmt.Errorf("%s: unknown command %q", op, command)
	}
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, command, err)
	}
	log.Info("migrations applied", zap.String("command", command))
	return nil
}

package main

import (
	"context"
	"os"
	"strings"

	"github.com/memocorner/repair-desk/internal/auth"
	"github.com/memocorner/repair-desk/internal/config"
	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/internal/repository"
	"github.com/memocorner/repair-desk/pkg/logger"
	"github.com/memocorner/repair-desk/pkg/pg"
)

func main() {
	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
	}
	// main.go --dir=./migrations [--seed]
	pgConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}
	err = pg.Migrate(pgConf, getMigrationPath())
	if err != nil {
		logger.Error("migration: error running migrations", "error", err)
		return
	}

	if hasArg("--seed") {
		if err := seed(pgConf); err != nil {
			logger.Error("seed: error seeding initial data", "error", err)
		}
	}
}

// seed inserts a default branch and an admin user so a fresh install can
// log in. Both are skipped when they already exist.
func seed(conf pg.Config) error {
	db, err := pg.CreateReadWrite(conf, conf, false)
	if err != nil {
		return err
	}
	ctx := context.Background()

	branches := repository.NewBranchRepository(db)
	users := repository.NewUserRepository(db)

	existing, err := branches.List(ctx)
	if err != nil {
		return err
	}
	var branchID int64
	if len(existing) == 0 {
		b, err := branches.Create(ctx, &model.Branch{Code: "A", Name: "Main Branch"})
		if err != nil {
			return err
		}
		branchID = b.ID
		logger.Info("seeded default branch", "code", b.Code)
	} else {
		branchID = existing[0].ID
	}

	if _, err := users.GetByUsername(ctx, "admin"); err == nil {
		return nil
	}
	hash, err := auth.HashPassword("admin")
	if err != nil {
		return err
	}
	u, err := users.Create(ctx, &model.User{
		Username: "admin",
		Password: hash,
		Role:     "admin",
		BranchID: branchID,
	})
	if err != nil {
		return err
	}
	logger.Info("seeded admin user", "username", u.Username)
	return nil
}

func hasArg(flag string) bool {
	for _, v := range os.Args {
		if v == flag {
			return true
		}
	}
	return false
}

func getEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Open(".env"); err != nil {
		logger.Error("failed to open the passed env file, got error" + err.Error())
		return ""
	}
	return ".env"
}

func getMigrationPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--dir=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Open("./migrations"); err != nil {
		logger.Error("failed to open the passed env file, got error" + err.Error())
		return ""
	}
	return "./migrations"
}

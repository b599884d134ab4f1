package main

import (
	"context"
	"fmt"
	"os"

	"github.com/codeotter0201/fullstack-lms-challenge/config"
	"github.com/codeotter0201/fullstack-lms-challenge/database"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seeding failed:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadENV(); err != nil {
		return err
	}
	env, err := config.Get()
	if err != nil {
		return err
	}

	log, err := logger.New(env.LOG_MODE)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := database.StartGORM(env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.NewSeeder(store.DB(), log).SeedAll(context.Background()); err != nil {
		return err
	}

	fmt.Println("Seeding completed.")
	fmt.Printf("Demo accounts student@example.com and teacher@example.com use password %q.\n", database.DemoPassword)
	fmt.Println("The admin account is created only when ADMIN_EMAIL and ADMIN_PASSWORD are set.")
	return nil
}

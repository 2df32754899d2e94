package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"stockmaster.GO/config"
)

var (
	migratePath string
	migrateDown bool
)

func migrateDSN() string {
	if dsn := os.Getenv("MIGRATE_DSN"); dsn != "" {
		return dsn
	}
	user := os.Getenv("MYSQL_USER")
	pass := os.Getenv("MYSQL_PASS")
	host := config.GetEnv("MYSQL_HOST", "127.0.0.1")
	port := config.GetEnv("MYSQL_PORT", "3306")
	name := config.GetEnv("MYSQL_DB", "stockmaster")
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true", user, pass, host, port, name)
}

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := migrate.New("file://"+migratePath, migrateDSN())
		if err != nil {
			fmt.Printf("Migrate init failed: %v\n", err)
			os.Exit(1)
		}
		defer m.Close()

		if migrateDown {
			err = m.Steps(-1)
		} else {
			err = m.Up()
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("Database already up to date")
			return
		}
		if err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied")
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migratePath, "path", "migrations", "Path to migration files")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back the most recent migration")
	rootCmd.AddCommand(migrateCmd)
}

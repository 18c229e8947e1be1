package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/dimitrije/wicket-api/internal/config"
	"github.com/dimitrije/wicket-api/internal/database"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "wicketctl",
	Short:        "Operator commands for wicket-api",
	Long:         `Operator commands that work directly against the wicket-api database.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(rolloverCmd())
	rootCmd.AddCommand(promoteAdminCmd())
	rootCmd.AddCommand(issueTokenCmd())
}

// connect loads the environment and opens the database. The caller closes it.
func connect(ctx context.Context) (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, db, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Price store maintenance",
	Long: `Manages the optional PostgreSQL price store.

Subcommands:
  init   - create the data schema and the daily_prices table
  check  - ping the store and show pool statistics

Example:
  go run ./cmd/portfolio db init
  go run ./cmd/portfolio db check`,
}

var (
	dbInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the price store schema",
		RunE:  runDBInit,
	}

	dbCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "Test the price store connection",
		RunE:  runDBCheck,
	}
)

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbCheckCmd)
}

func runDBInit(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context(), setupOptions{requireDB: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.EnsureSchema(cmd.Context()); err != nil {
		return err
	}

	PrintSuccess(cmd.OutOrStdout(), "Schema data.daily_prices is ready")
	return nil
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context(), setupOptions{requireDB: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database URL: %s\n\n", maskPassword(a.cfg.Database.URL))

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	status, err := a.db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	PrintSuccess(out, "Health Check Results:")
	PrintKeyValue(out, "Healthy", fmt.Sprintf("%v", status.Healthy), 20)
	PrintKeyValue(out, "Response Time", status.ResponseTime.String(), 20)
	PrintKeyValue(out, "Timestamp", status.Timestamp.Format(time.RFC3339), 20)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "📊 Connection Pool Statistics:")
	PrintKeyValue(out, "Max Connections", fmt.Sprintf("%d", status.Stats.MaxConns), 20)
	PrintKeyValue(out, "Total Connections", fmt.Sprintf("%d", status.Stats.TotalConns), 20)
	PrintKeyValue(out, "Acquired Connections", fmt.Sprintf("%d", status.Stats.AcquiredConns), 20)
	PrintKeyValue(out, "Idle Connections", fmt.Sprintf("%d", status.Stats.IdleConns), 20)

	return nil
}

// maskPassword hides the password of a connection URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

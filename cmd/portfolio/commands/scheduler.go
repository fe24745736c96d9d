package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaudi/Portfolio-analysis/internal/external/yahoo"
	"github.com/jaudi/Portfolio-analysis/internal/scheduler"
	"github.com/jaudi/Portfolio-analysis/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run background jobs",
	Long: `Starts the scheduler or runs its jobs by hand.

Jobs:
  price_refresh  - copies the catalog's daily closes into the price store
                   (needs DATABASE_URL; PRICE_REFRESH_SCHEDULE, PRICE_REFRESH_PERIOD)
  cache_warm     - pre-loads the default period into Redis
                   (needs REDIS_ENABLED=true; CACHE_WARM_SCHEDULE)

Subcommands:
  start   - run the scheduler until Ctrl+C
  list    - list the jobs the current configuration enables
  run     - run one job now and wait for it

Example:
  go run ./cmd/portfolio scheduler start
  go run ./cmd/portfolio scheduler run price_refresh --source naver`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List enabled jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

var schedulerSource string

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().StringVar(&schedulerSource, "source", yahoo.SourceName, "remote provider the jobs read from (yahoo|naver)")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context(), setupOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(cmd.Context(), a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// Start scheduler
	sched.Start()

	out := cmd.OutOrStdout()
	PrintSuccess(out, "Scheduler started")
	printJobs(out, sched)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context(), setupOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(cmd.Context(), a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	printJobs(cmd.OutOrStdout(), sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, err := setup(cmd.Context(), setupOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(cmd.Context(), a, scheduler.WithRetry(0, 0))
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	result, err := sched.RunNow(jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	out := cmd.OutOrStdout()
	if !result.Success {
		PrintWarning(out, fmt.Sprintf("%s failed after %s: %s", jobName, result.Duration.Round(time.Millisecond), result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}
	PrintSuccess(out, fmt.Sprintf("%s completed in %s", jobName, result.Duration.Round(time.Millisecond)))
	return nil
}

// initScheduler registers the jobs the configuration can support
func initScheduler(ctx context.Context, a *app, opts ...scheduler.Option) (*scheduler.Scheduler, error) {
	remote, ok := a.remote[schedulerSource]
	if !ok {
		return nil, fmt.Errorf("unknown remote source %q (valid: yahoo, naver)", schedulerSource)
	}

	sched := scheduler.New(a.log, opts...)
	symbols := a.profile.Symbols()

	if a.repo != nil {
		if err := a.db.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		refresh := jobs.NewPriceRefreshJob(remote, a.repo, symbols,
			a.cfg.Analysis.RefreshPeriod, a.cfg.Analysis.RefreshSchedule, a.log)
		if err := sched.AddJob(refresh); err != nil {
			return nil, err
		}
	}

	if a.redis.Enabled() {
		cached, err := a.sources.Get(schedulerSource)
		if err != nil {
			return nil, err
		}
		warm := jobs.NewCacheWarmJob(cached, symbols, a.profile.Periods.Default, a.cfg.Analysis.WarmSchedule, a.log)
		if err := sched.AddJob(warm); err != nil {
			return nil, err
		}
	}

	if len(sched.GetAllJobs()) == 0 {
		return nil, fmt.Errorf("no jobs enabled: set DATABASE_URL and/or REDIS_ENABLED=true")
	}
	return sched, nil
}

func printJobs(w io.Writer, sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()
	widths := []int{16, 20}
	PrintTableHeader(w, []string{"Job", "Schedule"}, widths)
	for _, name := range sched.GetAllJobs() {
		PrintTableRow(w, []string{name, stats[name].Schedule}, widths)
	}
}

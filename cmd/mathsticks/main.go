package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mathsticks/internal/app"
	"mathsticks/internal/game"
	"mathsticks/internal/state"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath    string
	dataDir       string
	logPath       string
	logLevel      string
	seed          int
	strict        bool
	ascii         bool
	style         string
	motion        string
	mouse         string
	resetTutorial bool
	dev           bool
	devHTTP       string
	demo          string
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "mathsticks",
		Short:         "Move matchsticks to make a bigger number",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return report(err)
			}
			return report(runGame(cmd.Context(), cfg))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to config.toml")
	pf.StringVar(&f.dataDir, "data-dir", "", "directory for state.db")
	pf.BoolVar(&f.dev, "dev", false, "dev mode: separate state file and HTTP control")

	fl := root.Flags()
	fl.StringVar(&f.logPath, "log", "", "write JSON logs to this file")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fl.IntVar(&f.seed, "seed", -1, "fixed starting number, negative for random")
	fl.BoolVar(&f.strict, "strict", false, "reject results that are not larger than the start")
	fl.BoolVar(&f.ascii, "ascii", false, "draw sticks with ASCII only")
	fl.StringVar(&f.style, "style", "", "modern_arcade, cozy_clean or retro_terminal")
	fl.StringVar(&f.motion, "motion", "", "full, reduced or off")
	fl.StringVar(&f.mouse, "mouse", "", "scoped, full or off")
	fl.BoolVar(&f.resetTutorial, "reset-tutorial", false, "show the tutorial again on launch")
	fl.StringVar(&f.devHTTP, "dev-http", "", "dev HTTP listen address")
	fl.StringVar(&f.demo, "demo", "", "run a demo scenario on start (dev mode)")

	root.AddCommand(newStatsCmd(f), newResetCmd(f))
	return root
}

func newStatsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the high score and lifetime stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return report(err)
			}
			return report(withStore(cmd.Context(), cfg, func(ctx context.Context, st *state.SQLiteStore) error {
				summary, err := st.GetSummary(ctx)
				if err != nil {
					return err
				}
				best, err := game.LoadHighScore(ctx, st)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), app.StatsText(summary, best))
				return nil
			}))
		},
	}
}

func newResetCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the high score, tutorial flag and stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return report(err)
			}
			return report(withStore(cmd.Context(), cfg, func(ctx context.Context, st *state.SQLiteStore) error {
				if err := st.Delete(ctx, game.HighScoreKey, game.TutorialSeenKey); err != nil {
					return err
				}
				if err := st.ResetStats(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Records cleared.")
				return nil
			}))
		},
	}
}

// loadConfig layers file and environment, then any flag the user set.
func loadConfig(cmd *cobra.Command, f *flags) (app.Config, error) {
	cfg, err := app.LoadConfig(f.configPath, nil)
	if err != nil {
		return cfg, err
	}
	changed := cmd.Flags().Changed
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if changed("dev") {
		cfg.Dev = f.dev
	}
	if changed("log") {
		cfg.LogPath = f.logPath
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("strict") {
		cfg.Strict = f.strict
	}
	if changed("ascii") {
		cfg.ASCIIOnly = f.ascii
	}
	if changed("style") {
		cfg.UI.StyleVariant = f.style
	}
	if changed("motion") {
		cfg.UI.MotionLevel = f.motion
	}
	if changed("mouse") {
		cfg.UI.MouseScope = f.mouse
	}
	if changed("reset-tutorial") {
		cfg.ResetTutorial = f.resetTutorial
	}
	if changed("dev-http") {
		cfg.DevHTTP = f.devHTTP
	}
	if changed("demo") {
		cfg.DemoScenario = f.demo
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runGame(parent context.Context, cfg app.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

func withStore(ctx context.Context, cfg app.Config, fn func(context.Context, *state.SQLiteStore) error) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	st, err := state.NewSQLite(cfg.StorePath())
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	return fn(ctx, st)
}

func report(err error) error {
	if err != nil {
		fmt.Fprintf(os.Stderr, "mathsticks: %v\n", err)
	}
	return err
}

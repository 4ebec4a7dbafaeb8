// Command-line tool for finding files by exact name in a directory
// tree and interactively deleting the duplicates.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"dupesweep/internal/config"
	"dupesweep/internal/exitcodes"
	"dupesweep/internal/finder"
	"dupesweep/internal/fsops"
	"dupesweep/internal/history"
	"dupesweep/internal/logging"
	"dupesweep/internal/metrics"
	"dupesweep/internal/safety"
	"dupesweep/internal/session"
)

func main() {
	app := &cli.App{
		Name:      "dupesweep",
		Usage:     "Find files by exact name and interactively delete duplicates",
		ArgsUsage: "<root-directory>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report deletions without touching the filesystem",
			},
			&cli.BoolFlag{
				Name:  "trash",
				Usage: "Move files to the trash directory instead of deleting them",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		// ExitCoder errors are handled inside Run; anything else is a
		// runtime failure
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcodes.RuntimeError)
	}
}

func run(c *cli.Context) error {
	root := c.Args().First()
	if root == "" {
		return cli.Exit("missing root directory\nUsage: dupesweep [options] <root-directory>", exitcodes.InvalidUsage)
	}

	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to load config: %v", err), exitcodes.InvalidUsage)
		}
		cfg = loaded
	}

	// Config first: the logger's rotation policy comes from it
	logger := logging.NewWithConfig(cfg)
	logger.Printf("dupesweep starting, root: %s", root)

	metrics.Init()
	if cfg.Prometheus.Port > 0 {
		logger.Printf("starting Prometheus metrics on %s", cfg.PrometheusAddress())
		metrics.StartServer(cfg.PrometheusAddress(), logger)
	}

	var db *history.DB
	if cfg.HistoryPath != "" {
		d, err := history.New(cfg.HistoryPath)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to open history database: %v", err), exitcodes.RuntimeError)
		}
		db = d
		defer func() {
			if err := db.Close(); err != nil {
				logger.Printf("failed to close history database: %v", err)
			}
		}()
	}

	var deleter fsops.Deleter = fsops.OSDeleter{}
	action := history.ActionDeleted
	if c.Bool("trash") {
		deleter = fsops.NewTrashDeleter(cfg.TrashDir)
		action = history.ActionTrashed
	}
	if c.Bool("dry-run") {
		logger.Printf("dry run mode: no files will be deleted")
	}

	sess := session.New(session.Options{
		Logger:    logger,
		Finder:    finder.New(logger, *cfg.FollowSymlinks),
		Deleter:   deleter,
		History:   db,
		Protected: cfg.ProtectedPaths,
		DryRun:    c.Bool("dry-run"),
		Action:    action,
	})

	if err := sess.Run(root); err != nil {
		logger.Printf("session failed: %v", err)
		code := exitcodes.RuntimeError
		if isSafetyViolation(err) {
			code = exitcodes.SafetyViolation
		}
		return cli.Exit(err.Error(), code)
	}

	logger.Printf("session finished")
	return nil
}

func isSafetyViolation(err error) bool {
	return errors.Is(err, safety.ErrProtectedPath) ||
		errors.Is(err, safety.ErrOutsideRoot) ||
		errors.Is(err, safety.ErrSymlinkEscape)
}

// Command protmatch aligns protein sequences from the command line.
//
// Usage:
//
//	protmatch [command] [flags]
//
// Commands:
//
//	align       Locally align two sequences
//	best        Find the candidate that aligns best to a query
//	matrix      Print the active penalty table
//	stats       Summarise a record file
//	version     Show version information
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aria-lang/protmatch-go/internal/alignment"
	"github.com/aria-lang/protmatch-go/internal/config"
	"github.com/aria-lang/protmatch-go/internal/logging"
)

var (
	configPath string
	logLevel   string
	matrixPath string

	cfg       config.Config
	logger    *log.Logger
	logCloser io.Closer

	rootCmd = &cobra.Command{
		Use:           "protmatch",
		Short:         "Local alignment of protein sequences",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if matrixPath != "" {
				cfg.Matrix = matrixPath
			}

			logger, logCloser, err = logging.New(cfg.Log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&matrixPath, "matrix", "m", "", "penalty table file (default built-in BLOSUM62)")

	rootCmd.AddCommand(alignCmd, bestCmd, matrixCmd, statsCmd, versionCmd)
}

// loadTable returns the table named by the config, or BLOSUM62.
func loadTable() (*alignment.PenaltyTable, error) {
	if cfg.Matrix == "" {
		logger.Debug("using built-in BLOSUM62")
		return alignment.BLOSUM62(), nil
	}
	table, err := alignment.LoadPenaltyTable(cfg.Matrix)
	if err != nil {
		return nil, fmt.Errorf("penalty table %s: %w", cfg.Matrix, err)
	}
	logger.Debug("loaded penalty table", "path", cfg.Matrix, "table", table)
	return table, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error(err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

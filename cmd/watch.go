package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/formalsmt/SMTmv/validate"
)

var watchModelPath string

var watchCmd = &cobra.Command{
	Use:   "watch <formula.smt2>",
	Short: "Re-validate the model whenever its file changes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if watchModelPath == "" {
			fail(fmt.Errorf("provide a model with --model"))
		}
		config, err := loadConfig()
		if err != nil {
			fail(err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			fail(fmt.Errorf("starting watcher: %w", err))
		}
		defer watcher.Close()

		if err := watcher.Add(watchModelPath); err != nil {
			fail(fmt.Errorf("watching %s: %w", watchModelPath, err))
		}

		logger.Info("watching model for changes", zap.String("model", watchModelPath))
		runOnce(args[0], config)

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					// coalesce editor write bursts into one validation
					time.Sleep(100 * time.Millisecond)
					runOnce(args[0], config)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("watch error", zap.Error(err))
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchModelPath, "model", "", "Model file to watch")
	watchCmd.Flags().StringVarP(&theoryRoot, "throot", "T", "", "Theory root with the prebuilt Isabelle session")
	_ = watchCmd.MarkFlagRequired("throot")
}

// runOnce validates the current file contents; watch mode reports
// failures and keeps watching instead of exiting.
func runOnce(formulaPath string, config validate.Config) {
	formula, err := os.ReadFile(formulaPath)
	if err != nil {
		logger.Error("reading formula", zap.Error(err))
		return
	}
	model, err := os.ReadFile(watchModelPath)
	if err != nil {
		logger.Error("reading model", zap.Error(err))
		return
	}

	result, err := validate.Validate(context.Background(), logger, string(formula), string(model), theoryRoot, config)
	if err != nil {
		logger.Error("validation failed", zap.String("class", errorClass(err)), zap.Error(err))
		return
	}
	if result == nil {
		logger.Info("model is an unsat answer, nothing to validate")
		return
	}
	fmt.Println(result.Verdict)
}

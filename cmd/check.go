package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/formalsmt/SMTmv/validate"
)

var (
	modelPaths []string
	fromStdin  bool
	theoryRoot string
)

var checkCmd = &cobra.Command{
	Use:   "check <formula.smt2>",
	Short: "Validate one or more models against an SMT-LIB formula",
	Long: `Reads an SMT-LIB formula and a candidate model (a solver's get-model
output), builds the Isabelle proof obligation and prints one verdict
line per model: sat, unsat or unknown.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !fromStdin && len(modelPaths) == 0 {
			fail(fmt.Errorf("provide a model with --model or --stdin"))
		}
		if fromStdin && len(modelPaths) > 0 {
			fail(fmt.Errorf("--model and --stdin are mutually exclusive"))
		}

		config, err := loadConfig()
		if err != nil {
			fail(err)
		}

		formula, err := os.ReadFile(args[0])
		if err != nil {
			fail(fmt.Errorf("reading formula: %w", err))
		}

		models, err := collectModels()
		if err != nil {
			fail(err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var bar *progressbar.ProgressBar
		if len(models) > 1 {
			bar = progressbar.NewOptions(len(models),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("validating models"))
		}

		for _, model := range models {
			result, err := validate.Validate(ctx, logger, string(formula), model.text, theoryRoot, config)
			if err != nil {
				fail(err)
			}
			if result == nil {
				logger.Info("model is an unsat answer, nothing to validate",
					zap.String("model", model.name))
			} else {
				fmt.Println(result.Verdict)
				if result.Diagnostic != "" {
					logger.Info("verdict",
						zap.String("model", model.name),
						zap.Stringer("verdict", result.Verdict),
						zap.String("diagnostic", result.Diagnostic))
				}
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	},
}

func init() {
	checkCmd.Flags().StringArrayVar(&modelPaths, "model", nil, "Model file (repeatable for batch validation)")
	checkCmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the model from standard input")
	checkCmd.Flags().StringVarP(&theoryRoot, "throot", "T", "", "Theory root with the prebuilt Isabelle session")
	_ = checkCmd.MarkFlagRequired("throot")
}

type namedModel struct {
	name string
	text string
}

func collectModels() ([]namedModel, error) {
	if fromStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading model from stdin: %w", err)
		}
		return []namedModel{{name: "<stdin>", text: string(data)}}, nil
	}
	var models []namedModel
	for _, path := range modelPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading model: %w", err)
		}
		models = append(models, namedModel{name: path, text: string(data)})
	}
	return models, nil
}

// loadConfig reads the configuration file named by --config, falling back
// to .smtmv.yaml in the working directory when present.
func loadConfig() (validate.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigName); err == nil {
			path = defaultConfigName
		}
	}
	config, err := validate.ParseConfigFile(path)
	if err != nil {
		return config, fmt.Errorf("loading configuration: %w", err)
	}
	if timeout > 0 {
		config.Timeout = timeout
	}
	return config, nil
}

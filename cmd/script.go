package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/formalsmt/SMTmv/validate"
)

var scriptModelPath string

var scriptCmd = &cobra.Command{
	Use:   "script <formula.smt2>",
	Short: "Print the generated Isabelle theory without running the prover",
	Long: `Runs the parse, translate and assemble stages only and prints the
theory file that 'check' would hand to Isabelle. Useful for debugging
translation issues.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig()
		if err != nil {
			fail(err)
		}

		formula, err := os.ReadFile(args[0])
		if err != nil {
			fail(fmt.Errorf("reading formula: %w", err))
		}

		var model []byte
		if scriptModelPath != "" {
			model, err = os.ReadFile(scriptModelPath)
			if err != nil {
				fail(fmt.Errorf("reading model: %w", err))
			}
		} else {
			model, err = io.ReadAll(os.Stdin)
			if err != nil {
				fail(fmt.Errorf("reading model from stdin: %w", err))
			}
		}

		theory, err := validate.BuildTheory(string(formula), string(model), theoryRoot, config)
		if err != nil {
			fail(err)
		}
		if theory == "" {
			logger.Info("model is an unsat answer, nothing to assemble")
			return
		}
		fmt.Print(theory)
	},
}

func init() {
	scriptCmd.Flags().StringVar(&scriptModelPath, "model", "", "Model file (default: standard input)")
	scriptCmd.Flags().StringVarP(&theoryRoot, "throot", "T", "", "Theory root (for its operator spec file)")
}

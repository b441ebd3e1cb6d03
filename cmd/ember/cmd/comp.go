package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberlang/ember/codegen"
	"github.com/emberlang/ember/parser"
)

var compCmd = &cobra.Command{
	Use:   "comp --input=FILE [--output=FILE]",
	Short: "Emit the generated C source for an ember source file",
	Args:  cobra.NoArgs,
	RunE:  runComp,
}

var (
	compInput  string
	compOutput string
)

func init() {
	rootCmd.AddCommand(compCmd)
	compCmd.Flags().StringVar(&compInput, "input", "", "path to the ember source file (required)")
	compCmd.Flags().StringVar(&compOutput, "output", "", "path to write the generated C source (default: stdout)")
	compCmd.MarkFlagRequired("input")
}

func runComp(cmd *cobra.Command, args []string) error {
	src, err := readSource(compInput)
	if err != nil {
		return err
	}

	top, err := parser.ParseSource(src)
	if err != nil {
		return err
	}

	out, err := codegen.Generate(top)
	if err != nil {
		return err
	}

	if compOutput == "" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(compOutput, []byte(out), 0o644)
}

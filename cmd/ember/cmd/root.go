// Package cmd implements the ember CLI's sub-command surface (spec §6.2):
// lex, parse, exec, comp, comp-e2e, and test, each a thin dispatcher over
// the lexer/parser/interp/codegen/runtime packages.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ember",
	Short: "ember lexer, parser, interpreter, and C code generator",
	Long: `ember is a small dynamically typed scripting language with a
tree-walking interpreter and a C-emitting code generator.

This CLI exposes each pipeline stage as its own sub-command:
  - lex       tokenize a source file
  - parse     parse a source file into an AST
  - exec      interpret a source file directly
  - comp      emit the generated C source for a source file
  - comp-e2e  emit C, compile it with cc, and run the resulting binary
  - test      run the fixture-driven end-to-end test suite`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose diagnostics on stderr")
	rootCmd.PersistentFlags().Bool("dump-json", false, "dump the stage's output as JSON (spec §6.3) instead of text")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "ember: "+msg+"\n", args...)
	os.Exit(1)
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

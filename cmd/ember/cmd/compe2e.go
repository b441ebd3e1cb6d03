package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberlang/ember/codegen"
	"github.com/emberlang/ember/parser"
	"github.com/emberlang/ember/runtime"
)

var compE2ECmd = &cobra.Command{
	Use:   "comp-e2e --input=FILE --output=FILE",
	Short: "Compile an ember source file to C, build it with cc, and run the binary",
	Args:  cobra.NoArgs,
	RunE:  runCompE2E,
}

var (
	compE2EInput  string
	compE2EOutput string
	compE2EArgv   string
)

func init() {
	rootCmd.AddCommand(compE2ECmd)
	compE2ECmd.Flags().StringVar(&compE2EInput, "input", "", "path to the ember source file (required)")
	compE2ECmd.Flags().StringVar(&compE2EOutput, "output", "", "path to write the compiled binary (required)")
	compE2ECmd.Flags().StringVar(&compE2EArgv, "argv", "", "space-separated argv passed to the compiled binary")
	compE2ECmd.MarkFlagRequired("input")
	compE2ECmd.MarkFlagRequired("output")
}

func runCompE2E(cmd *cobra.Command, args []string) error {
	src, err := readSource(compE2EInput)
	if err != nil {
		return err
	}

	top, err := parser.ParseSource(src)
	if err != nil {
		return err
	}

	generated, err := codegen.Generate(top)
	if err != nil {
		return err
	}

	scratch, err := os.MkdirTemp("", "ember-comp-e2e-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	for _, name := range runtime.Files {
		data, err := runtime.Sources.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading embedded runtime file %s: %w", name, err)
		}
		dest := filepath.Join(scratch, filepath.Base(name))
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
	}

	genPath := filepath.Join(scratch, "program.c")
	if err := os.WriteFile(genPath, []byte(generated), 0o644); err != nil {
		return fmt.Errorf("writing generated source: %w", err)
	}

	var cSources []string
	for _, name := range runtime.Files {
		if strings.HasSuffix(name, ".c") {
			cSources = append(cSources, filepath.Join(scratch, filepath.Base(name)))
		}
	}
	cSources = append(cSources, genPath)

	ccArgs := append([]string{"-I", scratch, "-O2", "-o", compE2EOutput}, cSources...)
	build := exec.Command("cc", ccArgs...)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		return fmt.Errorf("cc failed: %w", err)
	}

	runArgs := []string{}
	if strings.TrimSpace(compE2EArgv) != "" {
		runArgs = strings.Fields(compE2EArgv)
	}
	run := exec.Command(compE2EOutput, runArgs...)
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	return run.Run()
}

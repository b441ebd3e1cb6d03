package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberlang/ember/codegen"
	"github.com/emberlang/ember/interp"
	"github.com/emberlang/ember/internal/fixtures"
	"github.com/emberlang/ember/lexer"
	"github.com/emberlang/ember/parser"
)

var testCmd = &cobra.Command{
	Use:   "test --input=FILE",
	Short: "Run the fixture manifest's end-to-end test suite",
	Long: `Runs every fixture named in a manifest.yaml against its declared
pipeline stage (lex, parse, exec, or comp), reporting pass/fail by whether
the stage succeeded or failed as the fixture declares. Program output is
not compared.`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

var testManifest string

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().StringVar(&testManifest, "input", "testdata/fixtures/manifest.yaml", "path to the fixture manifest")
}

func runTest(cmd *cobra.Command, args []string) error {
	manifest, err := fixtures.Load(testManifest)
	if err != nil {
		return err
	}

	failures := 0
	for _, fx := range manifest.Fixtures {
		err := runFixture(fx, testManifest)
		ok := (err == nil) != fx.ExpectError
		status := "ok"
		if !ok {
			status = "FAIL"
			failures++
		}
		fmt.Printf("[%s] %s (%s)\n", status, fx.Name, fx.Stage)
		if !ok && err != nil {
			fmt.Printf("       %v\n", err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d fixture(s) failed", failures)
	}
	return nil
}

func runFixture(fx fixtures.Fixture, manifestPath string) error {
	src, err := fx.Source(manifestPath)
	if err != nil {
		return err
	}

	switch fx.Stage {
	case fixtures.StageLex:
		l := lexer.New(src)
		l.TokenizeAll()
		if err := l.Err(); err != nil {
			return err
		}
		return nil

	case fixtures.StageParse:
		_, err := parser.ParseSource(src)
		return err

	case fixtures.StageExec:
		top, err := parser.ParseSource(src)
		if err != nil {
			return err
		}
		var out bytes.Buffer
		in := interp.New(".", &out)
		var argv []string
		if strings.TrimSpace(fx.Argv) != "" {
			argv = strings.Fields(fx.Argv)
		}
		_, err = in.EvalTopLevel(top, argv)
		return err

	case fixtures.StageComp:
		top, err := parser.ParseSource(src)
		if err != nil {
			return err
		}
		_, err = codegen.Generate(top)
		return err

	default:
		return fmt.Errorf("unknown fixture stage %q", fx.Stage)
	}
}

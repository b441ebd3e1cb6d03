package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberlang/ember/interp"
	"github.com/emberlang/ember/parser"
)

var execCmd = &cobra.Command{
	Use:   "exec --input=FILE",
	Short: "Interpret an ember source file directly",
	Args:  cobra.NoArgs,
	RunE:  runExec,
}

var (
	execInput string
	execArgv  string
)

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringVar(&execInput, "input", "", "path to the ember source file (required)")
	execCmd.Flags().StringVar(&execArgv, "argv", "", "space-separated argv passed to main")
	execCmd.MarkFlagRequired("input")
}

func runExec(cmd *cobra.Command, args []string) error {
	src, err := readSource(execInput)
	if err != nil {
		return err
	}

	top, err := parser.ParseSource(src)
	if err != nil {
		return err
	}

	in := interp.New(filepath.Dir(execInput), os.Stdout)
	var argv []string
	if strings.TrimSpace(execArgv) != "" {
		argv = strings.Fields(execArgv)
	}
	_, err = in.EvalTopLevel(top, argv)
	return err
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/jsondump"
	"github.com/emberlang/ember/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse --input=FILE",
	Short: "Parse an ember source file into its AST",
	Args:  cobra.NoArgs,
	RunE:  runParse,
}

var parseInput string

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseInput, "input", "", "path to the ember source file (required)")
	parseCmd.MarkFlagRequired("input")
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := readSource(parseInput)
	if err != nil {
		return err
	}

	top, err := parser.ParseSource(src)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("dump-json")
	if asJSON {
		doc, err := jsondump.DumpAST(top)
		if err != nil {
			return err
		}
		fmt.Println(doc)
		return nil
	}

	fmt.Print(renderNode(top, 0))
	return nil
}

func renderNode(n ast.Node, depth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind.String())
	if n.Data.Name != "" {
		fmt.Fprintf(&b, " name=%s", n.Data.Name)
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		b.WriteString(renderNode(c, depth+1))
	}
	return b.String()
}

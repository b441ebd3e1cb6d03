package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberlang/ember/jsondump"
	"github.com/emberlang/ember/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex --input=FILE",
	Short: "Tokenize an ember source file",
	Args:  cobra.NoArgs,
	RunE:  runLex,
}

var lexInput string

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVar(&lexInput, "input", "", "path to the ember source file (required)")
	lexCmd.MarkFlagRequired("input")
}

func runLex(cmd *cobra.Command, args []string) error {
	src, err := readSource(lexInput)
	if err != nil {
		return err
	}

	l := lexer.New(src)
	toks := l.TokenizeAll()
	if l.Err() != nil {
		return l.Err()
	}

	asJSON, _ := cmd.Flags().GetBool("dump-json")
	if asJSON {
		doc, err := jsondump.DumpTokens(toks)
		if err != nil {
			return err
		}
		fmt.Println(doc)
		return nil
	}

	for _, tok := range toks {
		fmt.Printf("%-16s @%d:%d %q\n", tok.Kind, tok.Position.Line, tok.Position.Column, tok.Literal)
	}
	return nil
}

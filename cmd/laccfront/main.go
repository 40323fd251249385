// Command laccfront drives the front end over a fixed token fixture,
// printing one line per fragment ParseNext hands back. It exists to
// exercise the library end-to-end — a real build would sit a
// tokenizer/preprocessor in front of token.Lexer — grounded in the
// teacher's scratch-driver main.go and in ralph-cc's cobra-based CLI
// (_examples/raymyers-ralph-cc-go/cmd/ralph-cc/main.go), the richest
// cobra usage in the retrieval pack.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rnshah9/mayhem-lacc/ir"
	"github.com/rnshah9/mayhem-lacc/parser"
	"github.com/rnshah9/mayhem-lacc/token"
	"github.com/rnshah9/mayhem-lacc/types"
)

var (
	configPath string
	verbose    bool
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "laccfront",
		Short:         "laccfront drives the C front end over a token fixture",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrontend(cmd, args)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a target-configuration YAML file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every diagnostic at debug level")
	return cmd
}

func runFrontend(cmd *cobra.Command, _ []string) error {
	conf := types.DefaultConfig()
	if configPath != "" {
		loaded, err := types.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		conf = loaded
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	diag := parser.NewZapDiagnostics(log)
	intern := token.NewStringTable()
	lex := demoLexer()

	p := parser.New(lex, diag, intern, conf)
	for {
		frag, kind, err := p.ParseNext()
		if err != nil {
			return fmt.Errorf("front end: %w", err)
		}
		if kind == parser.FragmentEndOfInput {
			break
		}
		describeFragment(cmd, kind, frag)
	}
	return nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func describeFragment(cmd *cobra.Command, kind parser.FragmentKind, frag *ir.Decl) {
	switch kind {
	case parser.FragmentFunction:
		fmt.Fprintf(cmd.OutOrStdout(), "function fragment parsed: %d blocks\n", len(frag.Blocks()))
	case parser.FragmentGlobalInit:
		fmt.Fprintf(cmd.OutOrStdout(), "global initializer fragment parsed: %d blocks\n", len(frag.Blocks()))
	case parser.FragmentTentativeFinalization:
		fmt.Fprintf(cmd.OutOrStdout(), "tentative-definition finalization fragment parsed: %d blocks\n", len(frag.Blocks()))
	}
}

// demoLexer stands in for a real tokenizer: a fixed token stream
// encoding `int add(int a, int b) { return a + b; }`, enough to drive
// every stage of the pipeline end to end without wiring a lexer that
// is outside this front end's scope (spec.md §6).
func demoLexer() token.Lexer {
	tk := func(k token.Kind, lexeme string) token.Token { return token.Token{Kind: k, Lexeme: lexeme} }
	return token.NewListLexer([]token.Token{
		tk(token.KwInt, "int"),
		tk(token.Ident, "add"),
		tk(token.LParen, "("),
		tk(token.KwInt, "int"),
		tk(token.Ident, "a"),
		tk(token.Comma, ","),
		tk(token.KwInt, "int"),
		tk(token.Ident, "b"),
		tk(token.RParen, ")"),
		tk(token.LBrace, "{"),
		tk(token.KwReturn, "return"),
		tk(token.Ident, "a"),
		tk(token.Plus, "+"),
		tk(token.Ident, "b"),
		tk(token.Semi, ";"),
		tk(token.RBrace, "}"),
	})
}

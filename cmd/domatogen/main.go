// Command domatogen is a thin, illustrative front end for the grammar
// engine. It deliberately does not implement the batch generation loop,
// output-file writing, or template substitution (<cssfuzzer>, <htmlfuzzer>,
// ...) described as external, out-of-scope collaborators — it exists to
// exercise the consumer API end to end: parse a grammar file, expand one
// symbol, print the result.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/googleprojectzero/domato"
)

func main() {
	var (
		symbol   string
		seed     int64
		verbose  bool
		lineMode int
	)

	root := &cobra.Command{
		Use:   "domatogen <grammar-file>",
		Short: "Expand a tag-based grammar definition into a random string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := grammar.New()
			if verbose {
				g.Log = zerolog.New(os.Stderr).With().Timestamp().Logger()
			}
			if seed != 0 {
				grammar.Seed(seed)
			}

			if errs := g.ParseFromFile(args[0]); errs > 0 {
				return fmt.Errorf("%d errors parsing %s", errs, args[0])
			}

			var (
				out string
				err error
			)
			switch {
			case lineMode > 0:
				out, err = g.GenerateCode(lineMode, nil, 0)
			case symbol != "":
				out, err = g.GenerateSymbol(symbol)
			default:
				out, err = g.GenerateRoot()
			}
			if err != nil {
				return err
			}

			fmt.Println(out)
			return nil
		},
	}

	root.Flags().StringVarP(&symbol, "symbol", "s", "", "expand this symbol instead of the grammar's root")
	root.Flags().Int64Var(&seed, "seed", 0, "seed the PRNG for reproducible output (0 = time-based)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log parse and expansion diagnostics to stderr")
	root.Flags().IntVarP(&lineMode, "lines", "l", 0, "generate this many lines of code instead of expanding a symbol")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

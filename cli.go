package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

// newMincCmd builds the root command. All subcommands read one source file,
// run some prefix of the pass sequence, and exit non-zero on the first error.
func newMincCmd() *cobra.Command {
	var logToStderr bool
	var verbose int
	cmd := &cobra.Command{
		Use:           "minc",
		Short:         "minc compiles minc programs to x86-64 assembly text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(logToStderr, verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			glog.Flush()
		},
	}

	cmd.PersistentFlags().BoolVar(&logToStderr, "logtostderr", true, "Log to stderr instead of to files")
	cmd.PersistentFlags().IntVarP(&verbose, "verbose", "v", 0, "Enable verbose logging (e.g. -v=2)")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newTreeCmd())
	cmd.AddCommand(newSymbolsCmd())

	return cmd
}

func newBuildCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Compile a source file to assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return Compile(source, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write assembly to this file instead of stdout")
	return cmd
}

func newTreeCmd() *cobra.Command {
	var graph bool
	var raw bool
	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the syntax tree after the transform passes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			root, err := ParseProgram(source)
			if err != nil {
				return err
			}

			c := NewCompilation(root)
			if !raw {
				c.Fold()
				c.RemoveUnreachable()
			}

			if graph || env.Bool("GRAPHVIZ_OUTPUT") {
				c.Root.DumpGraphviz(os.Stdout)
			} else {
				c.Root.Dump(os.Stdout)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&graph, "graph", false, "Dump the tree in GraphViz dot format")
	cmd.Flags().BoolVar(&raw, "raw", false, "Dump the tree as parsed, before any transform")
	return cmd
}

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "Print the symbol tables, string pool and bound tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			root, err := ParseProgram(source)
			if err != nil {
				return err
			}

			c := NewCompilation(root)
			if err := c.Transform(); err != nil {
				return err
			}

			c.Globals.Dump(os.Stdout)
			fmt.Println("\n== STRING POOL ==")
			c.Strings.Dump(os.Stdout)
			fmt.Println("\n== BOUND SYNTAX TREE ==")
			c.Root.Dump(os.Stdout)
			return nil
		},
	}
}

func main() {
	if err := newMincCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvtree/internal/records"
)

func newBuildCmd(flags *rootFlags) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "build [file|-]",
		Short: "Build the forest and print it as JSON",
		Long: `Build the forest from a record file or stdin and print the roots as
indented JSON. With --stats the output also carries the forest depth and the
ids promoted to roots by the cycle policy.

Examples:
  # Build from a file
  lvtree build menu.json

  # Build from stdin
  cat regions.yaml | lvtree build --format yaml -

  # Keep records below a parent cycle as roots too
  LVTREE_TREE_CYCLE_POLICY=roots lvtree build --stats menu.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()

			recs, err := readRecords(cmd, flags, args)
			if err != nil {
				return err
			}

			forest, err := rt.forester.Build(cmd.Context(), recs)
			if err != nil {
				return err
			}
			if stats {
				return writeJSON(cmd.OutOrStdout(), forest)
			}

			return writeJSON(cmd.OutOrStdout(), forest.Roots)
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "include depth, unresolved ids and cycles")

	return cmd
}

func newPathCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path ID [file|-]",
		Short: "Print the ancestor ids of a record, root first",
		Long: `Print the ids of every ancestor of ID, one per line, starting at the
root. Nothing is printed for a root or an unknown id.

Examples:
  lvtree path 42 menu.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()

			recs, err := readRecords(cmd, flags, args[1:])
			if err != nil {
				return err
			}

			path, err := rt.forester.Path(cmd.Context(), args[0], recs)
			if err != nil {
				return err
			}
			for _, r := range path {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), r.Key); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func newSubtreeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subtree ID [file|-]",
		Short: "Print the single branch from the root down to a record",
		Long: `Print, as JSON, the chain from the root of ID down to ID itself, with
every sibling branch left out. An unknown id prints an empty list.

Examples:
  lvtree subtree 42 menu.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()

			recs, err := readRecords(cmd, flags, args[1:])
			if err != nil {
				return err
			}

			chain, err := rt.forester.Subtree(cmd.Context(), args[0], recs)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), chain)
		},
	}
}

// readRecords reads from the file named by args[0], or stdin when args is
// empty or "-". --format wins over the file extension; stdin defaults to JSON.
func readRecords(cmd *cobra.Command, flags *rootFlags, args []string) ([]*records.Record, error) {
	var (
		format records.Format
		err    error
	)
	if flags.format != "" {
		if format, err = records.ParseFormat(flags.format); err != nil {
			return nil, err
		}
	}

	if len(args) == 0 || args[0] == "-" {
		if format == "" {
			format = records.FormatJSON
		}
		return records.Read(cmd.InOrStdin(), format)
	}

	if format == "" {
		return records.ReadFile(args[0])
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	defer f.Close()

	return records.Read(f, format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/spf13/cobra"

	"github.com/zjrosen/bpgroup/internal/breakpoint"
	"github.com/zjrosen/bpgroup/internal/config"
	"github.com/zjrosen/bpgroup/internal/presentation"
	"github.com/zjrosen/bpgroup/internal/rewrite"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <classes...>",
	Short: "Show how a class list would be grouped",
	Long: `Show the breakpoint groups of a class list, the join call bpgroup would
emit for it, and the class string tailwind-merge resolves it to at runtime.

Examples:
  bpgroup classify "p-4 sm:p-8 text-center"
  bpgroup classify p-4 md:p-6 md:hidden --format json | jq '.groups'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		opts, err := classifyOptions(cfg)
		if err != nil {
			return err
		}
		styles := presentation.NewStyles(colorEnabled(os.Stdout))
		dto := classify(strings.Join(args, " "), opts)

		f := presentation.NewFormatter(cmd.OutOrStdout(), styles)
		switch formatFlag {
		case "json":
			return f.FormatJSON(dto)
		case "text":
			return f.FormatPartitionText(dto)
		default:
			return fmt.Errorf("unknown format %q (expected text or json)", formatFlag)
		}
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// classifyOptions validates c and derives the rendering options from it.
func classifyOptions(c config.Config) (rewrite.Options, error) {
	if err := c.Validate(); err != nil {
		return rewrite.Options{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return rewrite.Options{
		JoinFunction: c.JoinFunction,
		Indent:       strings.Repeat(" ", c.Indent),
	}, nil
}

// classify partitions input and renders the call. Call is empty when no
// class carries a breakpoint prefix.
func classify(input string, opts rewrite.Options) presentation.PartitionDTO {
	p := breakpoint.Classify(breakpoint.Tokens(input))
	call := ""
	if !p.Empty() {
		call = rewrite.New(opts).Render(p)
	}
	return presentation.FromPartition(input, p, call, merge(p.Flatten()))
}

// merge returns the classes that survive tailwind-merge, in input order.
// A repeated class keeps its last occurrence.
func merge(tokens []string) string {
	survivors := make(map[string]int)
	for _, tok := range strings.Fields(twmerge.Merge(strings.Join(tokens, " "))) {
		survivors[tok]++
	}
	kept := make([]string, 0, len(tokens))
	for i := len(tokens) - 1; i >= 0; i-- {
		if survivors[tokens[i]] > 0 {
			survivors[tokens[i]]--
			kept = append(kept, tokens[i])
		}
	}
	slices.Reverse(kept)
	return strings.Join(kept, " ")
}

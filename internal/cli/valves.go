package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/freeeve/foundry/internal/service"
	"github.com/freeeve/foundry/pkg/valve"
)

// NewValvesCommand creates the valves command
func NewValvesCommand() *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "valves <file>",
		Short: "Find the most pressure a valve network can release",
		Long: `Reads a valve network ("-" for stdin), starts at valve AA and prints the
most pressure that can be released within the minute budget.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			input, err := io.ReadAll(in)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			svc := service.NewSolverService(nil, nil, nil, nil, 1)
			res, err := svc.SolveValves(ctx, string(input), minutes)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Pressure: %d\n", res.Pressure)
			fmt.Fprintf(cmd.OutOrStdout(), "Minutes:  %d\n", res.Minutes)
			fmt.Fprintf(cmd.OutOrStdout(), "Nodes:    %d\n", res.Nodes)
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", valve.DefaultMinutes, "Minute budget")

	return cmd
}

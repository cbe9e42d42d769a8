package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/freeeve/foundry/internal/config"
	"github.com/freeeve/foundry/internal/model"
	"github.com/freeeve/foundry/internal/repository"
	"github.com/freeeve/foundry/internal/repository/postgres"
	redisrepo "github.com/freeeve/foundry/internal/repository/redis"
	"github.com/freeeve/foundry/internal/service"
	"github.com/freeeve/foundry/pkg/blueprint"
	"github.com/freeeve/foundry/pkg/search"
)

// NewBlueprintsCommand creates the blueprints command
func NewBlueprintsCommand() *cobra.Command {
	var (
		horizon  int
		first    int
		parallel bool
		workers  int
		asJSON   bool
		useCache bool
		record   bool
	)

	cmd := &cobra.Command{
		Use:   "blueprints <file>",
		Short: "Find the best geode count for every blueprint in a file",
		Long: `Reads one blueprint per line ("-" for stdin) and prints the geodes each can
open within the horizon, the quality sum (id x geodes) and the product of
the first N results.

--cache and --record use REDIS_URL and DATABASE_URL from the environment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bps, err := readBlueprints(cmd, args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			stores, err := openStores(ctx, useCache, record)
			if err != nil {
				return err
			}
			defer stores.close()

			svc := service.NewSolverService(stores.cache, stores.runs, nil, nil, workers)
			job, err := svc.SolveBlueprints(ctx, "", bps, horizon, service.SolveOptions{
				Parallel: parallel,
				First:    first,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(job)
			}
			printJob(cmd.OutOrStdout(), job, first)
			return nil
		},
	}

	cmd.Flags().IntVar(&horizon, "horizon", 24, "Minutes available")
	cmd.Flags().IntVar(&first, "first", 0, "Multiply only the first N results (0 = all)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Split each search tree across goroutines")
	cmd.Flags().IntVar(&workers, "workers", 0, "Blueprints solved at once (0 = one per CPU)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the job result as JSON")
	cmd.Flags().BoolVar(&useCache, "cache", false, "Consult and fill the Redis result cache")
	cmd.Flags().BoolVar(&record, "record", false, "Record runs in Postgres")

	return cmd
}

func readBlueprints(cmd *cobra.Command, path string) ([]search.Blueprint, error) {
	if path == "-" {
		return blueprint.Parse(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	bps, err := blueprint.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bps, nil
}

func printJob(w io.Writer, job *model.JobResult, first int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BLUEPRINT\tGEODES\tNODES\tSOURCE")
	for _, r := range job.Results {
		source := "search"
		if r.Cached {
			source = "cache"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", r.BlueprintID, r.Geodes, r.Nodes, source)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nHorizon:  %d\n", job.Horizon)
	fmt.Fprintf(w, "Quality:  %d\n", job.Quality)
	if first > 0 {
		fmt.Fprintf(w, "Product:  %d (first %d)\n", job.Product, first)
	} else {
		fmt.Fprintf(w, "Product:  %d\n", job.Product)
	}
}

// stores holds the optional backends a CLI run was asked to use.
type stores struct {
	cache  repository.ResultCache
	runs   repository.RunRepository
	closer []func() error
}

func openStores(ctx context.Context, useCache, record bool) (*stores, error) {
	s := &stores{}
	if !useCache && !record {
		return s, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if useCache {
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("--cache needs REDIS_URL")
		}
		client, err := redisrepo.NewClient(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		s.cache = client
		s.closer = append(s.closer, client.Close)
	}
	if record {
		if cfg.DatabaseURL == "" {
			s.close()
			return nil, fmt.Errorf("--record needs DATABASE_URL")
		}
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			s.close()
			return nil, err
		}
		s.runs = postgres.NewRunRepo(db)
		s.closer = append(s.closer, db.Close)
	}
	return s, nil
}

func (s *stores) close() {
	for _, c := range s.closer {
		c()
	}
}

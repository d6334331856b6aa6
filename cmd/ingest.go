package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/localpages/directory-cli/internal/cost"
	"github.com/localpages/directory-cli/internal/ingest"
)

var (
	ingestSeedFile string
	ingestDryRun   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Seed the directory from provider text searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		seedFile := ingestSeedFile
		if seedFile == "" {
			seedFile = cfg.Ingest.SeedFile
		}

		plan, err := ingest.LoadPlan(seedFile)
		if err != nil {
			return err
		}
		for i := range plan.Searches {
			if plan.Searches[i].MaxResults == 0 {
				plan.Searches[i].MaxResults = cfg.Ingest.MaxResults
			}
		}

		if ingestDryRun {
			calc := cost.NewCalculator(cost.DefaultRates())
			fmt.Printf("plan: %d searches from %s\n", len(plan.Searches), seedFile)
			fmt.Printf("estimated search cost: $%.4f\n", calc.PlacesSearch(len(plan.Searches)))
			return nil
		}

		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		pc, err := initPlaces()
		if err != nil {
			return err
		}

		ing := ingest.New(st, pc, ingest.Options{
			FeaturedMinRating:  cfg.Ingest.FeaturedMinRating,
			FeaturedMinReviews: cfg.Ingest.FeaturedMinReviews,
		})

		sum, err := ing.Run(ctx, plan)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSeedFile, "seeds", "", "seed plan YAML (default from config)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "print the plan and estimated cost without calling the provider")
	rootCmd.AddCommand(ingestCmd)
}

package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localpages/directory-cli/internal/describe"
	"github.com/localpages/directory-cli/internal/store"
	"github.com/localpages/directory-cli/pkg/anthropic"
)

var (
	describeSlug  string
	describeLimit int
	describeForce bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Draft listing descriptions with Claude",
	Long:  "Generates short listing descriptions for records that lack one, from the facts already stored.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic API key is required (DIRECTORY_ANTHROPIC_KEY)")
		}

		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		drafter := describe.New(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)

		if describeSlug != "" {
			b, err := st.GetBusinessBySlug(ctx, describeSlug)
			if err != nil {
				return err
			}
			text, err := drafter.Draft(ctx, b)
			if err != nil {
				return err
			}
			b.Description = text
			if _, err := st.UpsertBusiness(ctx, b); err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", b.Slug, text)
			return nil
		}

		records, err := st.ListBusinesses(ctx, store.BusinessFilter{Limit: describeLimit})
		if err != nil {
			return err
		}

		var drafted, skipped, failed int
		for i := range records {
			b := &records[i]
			if b.Description != "" && !describeForce {
				skipped++
				continue
			}

			text, err := drafter.Draft(ctx, b)
			if err != nil {
				zap.L().Warn("draft failed", zap.String("slug", b.Slug), zap.Error(err))
				failed++
				continue
			}

			b.Description = text
			if _, err := st.UpsertBusiness(ctx, b); err != nil {
				zap.L().Warn("save description failed", zap.String("slug", b.Slug), zap.Error(err))
				failed++
				continue
			}
			drafted++
		}

		fmt.Printf("drafted %d, skipped %d, failed %d\n", drafted, skipped, failed)
		return nil
	},
}

func init() {
	describeCmd.Flags().StringVar(&describeSlug, "slug", "", "draft for a single record by slug")
	describeCmd.Flags().IntVar(&describeLimit, "limit", 50, "max records to consider")
	describeCmd.Flags().BoolVar(&describeForce, "force", false, "redraft records that already have a description")
	rootCmd.AddCommand(describeCmd)
}

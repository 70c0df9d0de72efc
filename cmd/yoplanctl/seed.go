package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yoplan/internal/repositories"
	"yoplan/internal/seed"
	"yoplan/internal/services"
	"yoplan/pkg/llm"
)

var (
	seedFile      string
	seedEmbedFaqs bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert diagnosis questions, plans and FAQs",
	Long:  "Upsert the catalog fixtures. Without --file the fixtures embedded in the binary are used.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML fixture file to load instead of the embedded one")
	seedCmd.Flags().BoolVar(&seedEmbedFaqs, "embed-faqs", false, "Also write FAQ embeddings (needs OPENAI_API_KEY)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	fixtures, err := loadFixtures()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	faqRepo := repositories.NewFaqRepository(e.db)
	seeder := seed.NewSeeder(
		repositories.NewDiagnosisCatalogRepository(e.db),
		repositories.NewPlanRepository(e.db),
		faqRepo,
		e.log.Named("seed"),
	)
	sum, err := seeder.Run(ctx, fixtures)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d questions, %d plans, %d faqs\n", sum.Questions, sum.Plans, sum.Faqs)

	if !seedEmbedFaqs {
		return nil
	}
	if e.cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("--embed-faqs needs OPENAI_API_KEY")
	}
	embedder := llm.NewOpenAIClient(e.cfg.OpenAIAPIKey, e.cfg.OpenAIModel, e.cfg.OpenAIEmbeddingModel, e.cfg.OpenAIBaseURL)
	stored, err := services.NewEmbededService(faqRepo, repositories.NewFaqEmbeddingRepository(e.db), embedder, e.log.Named("embedding")).EmbedFaqs(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "embedded %d faqs\n", stored)
	return nil
}

func loadFixtures() (*seed.File, error) {
	if seedFile == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"yoplan/internal/repositories"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete user generated data",
	Long:  "Delete diagnosis results, conversations and bookmarks. With --all the plan, question and FAQ catalog is removed too.",
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "Also delete plans, diagnosis questions, FAQs and FAQ embeddings")
	rootCmd.AddCommand(clearCmd)
}

type clearStep struct {
	name string
	run  func(ctx context.Context) error
}

func runClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	steps := []clearStep{
		{"diagnosis results", repositories.NewDiagnosisResultRepository(e.db).DeleteAll},
		{"conversations", repositories.NewConversationRepository(e.db).DeleteAll},
		{"bookmarks", repositories.NewBookmarkRepository(e.db).DeleteAll},
	}
	if clearAll {
		steps = append(steps,
			clearStep{"faq embeddings", repositories.NewFaqEmbeddingRepository(e.db).DeleteAll},
			clearStep{"faqs", repositories.NewFaqRepository(e.db).DeleteAll},
			clearStep{"plans", repositories.NewPlanRepository(e.db).DeleteAll},
			clearStep{"diagnosis questions", repositories.NewDiagnosisCatalogRepository(e.db).DeleteQuestions},
		)
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("clear %s: %w", step.name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", step.name)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"yoplan/internal/repositories"
)

var (
	healthDays int
	healthTop  int
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Ping the database and report table counts and recent activity",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().IntVar(&healthDays, "days", 30, "activity window in days")
	healthCmd.Flags().IntVar(&healthTop, "top", 5, "number of most bookmarked plans to list")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	start := time.Now()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "database ok (%dms)\n", time.Since(start).Milliseconds())

	counts := []struct {
		name  string
		count func(ctx context.Context) (int64, error)
	}{
		{"diagnosis questions", repositories.NewDiagnosisCatalogRepository(e.db).CountQuestions},
		{"plans", repositories.NewPlanRepository(e.db).Count},
		{"faqs", repositories.NewFaqRepository(e.db).Count},
		{"diagnosis results", repositories.NewDiagnosisResultRepository(e.db).Count},
	}
	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", c.name, err)
		}
		fmt.Fprintf(out, "%-20s %d\n", c.name, n)
	}

	if healthDays <= 0 {
		return fmt.Errorf("--days must be positive, got %d", healthDays)
	}
	end := time.Now()
	return printActivity(ctx, out, repositories.NewActivityRepository(e.db), end.AddDate(0, 0, -healthDays), end)
}

func printActivity(ctx context.Context, out io.Writer, repo repositories.ActivityRepository, start, end time.Time) error {
	users, err := repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	newUsers, err := repo.CountNewUsers(ctx, start, end)
	if err != nil {
		return fmt.Errorf("count new users: %w", err)
	}
	diagnoses, err := repo.CountDiagnoses(ctx, start, end, false)
	if err != nil {
		return fmt.Errorf("count diagnoses: %w", err)
	}
	members, err := repo.CountDiagnoses(ctx, start, end, true)
	if err != nil {
		return fmt.Errorf("count member diagnoses: %w", err)
	}
	conversations, err := repo.CountConversations(ctx, start, end)
	if err != nil {
		return fmt.Errorf("count conversations: %w", err)
	}
	bookmarks, err := repo.CountBookmarks(ctx)
	if err != nil {
		return fmt.Errorf("count bookmarks: %w", err)
	}
	activePlans, err := repo.CountActivePlans(ctx)
	if err != nil {
		return fmt.Errorf("count active plans: %w", err)
	}

	fmt.Fprintf(out, "\nactivity since %s\n", start.Format("2006-01-02"))
	fmt.Fprintf(out, "%-20s %d (%d new)\n", "users", users, newUsers)
	fmt.Fprintf(out, "%-20s %d (%d signed in, %d anonymous)\n", "diagnoses", diagnoses, members, diagnoses-members)
	fmt.Fprintf(out, "%-20s %d\n", "conversations", conversations)
	fmt.Fprintf(out, "%-20s %d\n", "active plans", activePlans)
	fmt.Fprintf(out, "%-20s %d\n", "bookmarks", bookmarks)

	if healthTop <= 0 || bookmarks == 0 {
		return nil
	}
	top, err := repo.TopBookmarkedPlans(ctx, healthTop)
	if err != nil {
		return fmt.Errorf("top bookmarked plans: %w", err)
	}
	won := message.NewPrinter(language.Korean)
	fmt.Fprintln(out, "\nmost bookmarked plans")
	for i, row := range top {
		fmt.Fprintf(out, "%2d. %-24s %-4s %8s원 %4d (%.1f%%)\n",
			i+1, row.PlanName, row.Category, won.Sprintf("%d", row.PriceValue), row.Count,
			float64(row.Count)*100/float64(bookmarks))
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	config "github.com/avatarctic/news-dashboard/go/configs"
	"github.com/avatarctic/news-dashboard/go/internal/application/services"
	"github.com/avatarctic/news-dashboard/go/internal/bootstrap"
	"github.com/avatarctic/news-dashboard/go/internal/core/domain/news"
	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
)

// env supplies the commands with their dependencies so tests can swap them out.
type env struct {
	out io.Writer
	// newsService returns the feed service and a cleanup func.
	newsService func() (ports.NewsService, func(), error)
	adminTokens func() (ports.AdminTokenService, time.Duration, error)
}

func defaultEnv() *env {
	return &env{
		out: os.Stdout,
		newsService: func() (ports.NewsService, func(), error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, nil, err
			}
			logger := bootstrap.NewLogger(&cfg.Log)
			logger.SetOutput(os.Stderr)
			client, cache := bootstrap.OpenCache(cfg, logger)
			if client == nil {
				return nil, nil, fmt.Errorf("redis is not reachable at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			}
			svc := bootstrap.NewNewsService(cfg, cache, bootstrap.NewProvider(&cfg.News, logger), nil, logger)
			return svc, func() { _ = client.Close() }, nil
		},
		adminTokens: func() (ports.AdminTokenService, time.Duration, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, 0, err
			}
			return services.NewAdminTokenService(cfg.Admin.JWTSecret), cfg.Admin.TokenTTL, nil
		},
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "feedctl",
		Short:         "Operate the news feed cache",
		SilenceUsage: true,
	}
	root.SetOut(e.out)
	root.AddCommand(newInvalidateCmd(e), newWarmCmd(e), newCategoriesCmd(e), newTokenCmd(e))
	return root
}

func newInvalidateCmd(e *env) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Delete cached feed pages for one category or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := e.newsService()
			if err != nil {
				return err
			}
			defer cleanup()

			var target *string
			if category != "" {
				target = &category
			}
			deleted, err := svc.InvalidateCache(cmd.Context(), target)
			if err != nil {
				return err
			}
			scope := "all categories"
			if target != nil {
				scope = "category " + category
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d keys (%s)\n", deleted, scope)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only invalidate this category")
	return cmd
}

func newWarmCmd(e *env) *cobra.Command {
	var pages, pageSize int
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Force-refresh the first pages of every category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be >= 1")
			}
			if pageSize < 1 || pageSize > 20 {
				return fmt.Errorf("--page-size must be between 1 and 20")
			}
			svc, cleanup, err := e.newsService()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			for _, c := range svc.GetCategories() {
				for p := 1; p <= pages; p++ {
					res, err := svc.GetFeed(ctx, string(c), p, pageSize, true)
					if err != nil {
						return fmt.Errorf("warming %s page %d: %w", c, p, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s page %d: %d articles\n", c, p, res.TotalResults)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages per category")
	cmd.Flags().IntVar(&pageSize, "page-size", news.DefaultPageSize, "articles per page")
	return cmd
}

func newCategoriesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the supported categories",
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range news.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
		},
	}
}

func newTokenCmd(e *env) *cobra.Command {
	var ttl time.Duration
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin token for the refresh and item endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, defaultTTL, err := e.adminTokens()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = defaultTTL
			}
			tok, err := tokens.GenerateToken(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to ADMIN_TOKEN_TTL)")
	cmd.Flags().StringVar(&subject, "subject", "feedctl", "token subject")
	return cmd
}

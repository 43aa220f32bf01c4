package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/github-profile-api/internal/app"
	"github.com/kurihiro0119/github-profile-api/internal/config"
	"github.com/kurihiro0119/github-profile-api/internal/domain"
	"github.com/kurihiro0119/github-profile-api/internal/logging"
	"github.com/kurihiro0119/github-profile-api/internal/scraper"
	"github.com/kurihiro0119/github-profile-api/pkg/client"
)

var (
	cfgFile    string
	outputJSON bool
	remote     bool
	verbose    bool
	page       int
	perPage    int
	sortOrder  string
	scrapeFile string
)

var rootCmd = &cobra.Command{
	Use:   "github-profile",
	Short: "GitHub profile aggregation tool",
	Long: `A CLI tool for looking up GitHub profiles and repositories.

Profiles combine the GitHub REST API user record with data scraped from the
public profile page (pinned repositories, contribution count, achievements).
Lookups run in-process by default, or against a running API server with --remote.`,
	SilenceUsage: true,
}

var profileCmd = &cobra.Command{
	Use:   "profile [username]",
	Short: "Show a user's merged profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

var reposCmd = &cobra.Command{
	Use:   "repos [username]",
	Short: "List a user's repositories",
	Long:  `List one page of a user's public repositories, sorted in descending order.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRepos,
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [username]",
	Short: "Scrape a profile page only",
	Long: `Fetch and parse the public profile page of a user without calling the REST API.
With --file, parse a saved HTML page instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrape,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the API server",
	Long:  `Check the API server at API_ENDPOINT and show the upstream rate limit it last saw.`,
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "TOML config file (default is .env and environment)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&remote, "remote", false, "query the API server at API_ENDPOINT instead of GitHub directly")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	reposCmd.Flags().IntVar(&page, "page", domain.DefaultPage, "page number")
	reposCmd.Flags().IntVar(&perPage, "per-page", domain.DefaultPerPage, "repositories per page (max 100)")
	reposCmd.Flags().StringVar(&sortOrder, "sort", domain.DefaultSort, "sort order ("+strings.Join(domain.SortOrders, ", ")+")")

	scrapeCmd.Flags().StringVar(&scrapeFile, "file", "", "parse a saved profile page")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *log.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(os.Stderr, level)
}

func newRemoteClient(cfg *config.Config) *client.Client {
	return client.NewClient(strings.TrimSuffix(cfg.APIEndpoint, "/"),
		client.WithProxySecret(cfg.ProxySecret),
		client.WithHTTPClient(newHTTPClient(cfg)),
	)
}

func runProfile(cmd *cobra.Command, args []string) error {
	username := args[0]
	if err := domain.ValidateUsername(username); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var profile *domain.Profile
	if remote {
		profile, err = newRemoteClient(cfg).GetProfile(ctx, username)
	} else {
		var svc *app.Services
		svc, err = app.New(cfg, newLogger(cfg))
		if err != nil {
			return err
		}
		profile, err = svc.Aggregator.GetProfile(ctx, username)
	}
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	if outputJSON {
		return printJSON(profile)
	}

	fmt.Printf("\nProfile: %s\n\n", profile.Username)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Name", deref(profile.Name)})
	table.Append([]string{"Bio", deref(profile.Bio)})
	table.Append([]string{"Company", deref(profile.Company)})
	table.Append([]string{"Location", deref(profile.Location)})
	table.Append([]string{"Blog", deref(profile.Blog)})
	table.Append([]string{"Twitter", deref(profile.TwitterUsername)})
	table.Append([]string{"Public Repos", strconv.Itoa(profile.PublicRepos)})
	table.Append([]string{"Public Gists", strconv.Itoa(profile.PublicGists)})
	table.Append([]string{"Followers", strconv.Itoa(profile.Followers)})
	table.Append([]string{"Following", strconv.Itoa(profile.Following)})
	table.Append([]string{"Joined", formatTime(profile.CreatedAt)})
	table.Append([]string{"Contributions (last year)", formatContributions(profile.ContributionStats)})
	table.Append([]string{"Achievements", strings.Join(profile.Achievements, ", ")})
	table.Render()

	if len(profile.PinnedRepos) > 0 {
		fmt.Println("\nPinned Repositories")
		renderPinned(profile.PinnedRepos)
	}
	return nil
}

func runRepos(cmd *cobra.Command, args []string) error {
	username := args[0]
	if err := domain.ValidateUsername(username); err != nil {
		return err
	}

	query := domain.RepositoryQuery{Page: page, PerPage: perPage, Sort: sortOrder}
	if err := query.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var result *domain.RepositoryPage
	if remote {
		result, err = newRemoteClient(cfg).GetRepositories(ctx, username, query)
	} else {
		var svc *app.Services
		svc, err = app.New(cfg, newLogger(cfg))
		if err != nil {
			return err
		}
		result, err = svc.Aggregator.GetRepositories(ctx, username, query)
	}
	if err != nil {
		return fmt.Errorf("failed to get repositories: %w", err)
	}

	if outputJSON {
		return printJSON(result)
	}

	fmt.Printf("\nRepositories: %s (page %d, %d per page, sorted by %s)\n\n", result.Username, result.Page, result.PerPage, query.Sort)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Repository", "Language", "Stars", "Forks", "Issues", "Updated", "Flags"})
	for _, r := range result.Repositories {
		table.Append([]string{
			r.Name,
			deref(r.Language),
			strconv.Itoa(r.Stars),
			strconv.Itoa(r.Forks),
			strconv.Itoa(r.OpenIssues),
			formatTime(r.UpdatedAt),
			repoFlags(r),
		})
	}
	table.Render()

	fmt.Printf("%d repositories\n", result.TotalCount)
	return nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	var (
		scraped domain.ScrapedProfile
		label   string
	)

	switch {
	case scrapeFile != "":
		f, err := os.Open(scrapeFile)
		if err != nil {
			return fmt.Errorf("failed to open page: %w", err)
		}
		defer f.Close()

		scraped, err = scraper.Parse(f)
		if err != nil {
			return fmt.Errorf("failed to parse page: %w", err)
		}
		label = scrapeFile
	case len(args) == 1:
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s := scraper.New(scraper.Config{
			BaseURL:    cfg.GitHubWebURL,
			HTTPClient: newHTTPClient(cfg),
			Logger:     newLogger(cfg),
		})
		scraped = s.Scrape(cmd.Context(), args[0])
		label = args[0]
	default:
		return fmt.Errorf("a username or --file is required")
	}

	if outputJSON {
		return printJSON(struct {
			PinnedRepos       []domain.PinnedItem       `json:"pinned_repos"`
			ContributionStats *domain.ContributionStats `json:"contribution_stats"`
			Achievements      []string                  `json:"achievements"`
		}{nonNil(scraped.PinnedItems), scraped.ContributionStats, nonNil(scraped.Achievements)})
	}

	fmt.Printf("\nProfile page: %s\n\n", label)
	if scraped.IsEmpty() {
		fmt.Println("Nothing could be extracted.")
		return nil
	}

	fmt.Printf("Contributions (last year): %s\n", formatContributions(scraped.ContributionStats))
	fmt.Printf("Achievements: %s\n\n", strings.Join(scraped.Achievements, ", "))
	renderPinned(scraped.PinnedItems)
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	health, err := newRemoteClient(cfg).HealthCheck(cmd.Context())
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if outputJSON {
		return printJSON(health)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Check", "Value"})
	table.Append([]string{"Endpoint", cfg.APIEndpoint})
	table.Append([]string{"Status", health.Status})
	if health.UpstreamRate.Known {
		table.Append([]string{"Rate Limit", fmt.Sprintf("%d/%d", health.UpstreamRate.Remaining, health.UpstreamRate.Limit)})
		table.Append([]string{"Rate Reset", health.UpstreamRate.Reset.Local().Format(time.RFC3339)})
	} else {
		table.Append([]string{"Rate Limit", "unknown"})
	}
	table.Render()
	return nil
}

func renderPinned(items []domain.PinnedItem) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Language", "Stars", "Description"})
	for _, item := range items {
		table.Append([]string{
			item.Name,
			deref(item.Language),
			strconv.Itoa(item.Stars),
			deref(item.Description),
		})
	}
	table.Render()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

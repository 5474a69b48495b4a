// Package main is the bibfind CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/bibfind/internal/config"
	"github.com/hyperjump/bibfind/internal/index"
	"github.com/hyperjump/bibfind/internal/indexer"
	"github.com/hyperjump/bibfind/internal/models"
	"github.com/hyperjump/bibfind/internal/search"
	"github.com/hyperjump/bibfind/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultConfigPath = "/usr/local/etc/bibfind/config.yaml"

var (
	flagConfig   string
	flagDebug    bool
	flagBib      string
	flagIndexDir string
	flagRebuild  bool
	flagBibtex   bool
	flagLimit    int
	flagOutput   string
)

var rootCmd = &cobra.Command{
	Use:   "bibfind [flags] <query>...",
	Short: "Search a BibTeX bibliography from the command line",
	Long: `bibfind indexes a BibTeX bibliography (cryptobib by default) and searches
it from the command line.

Query Syntax:
  Terms match any field and are ORed together. Uppercase AND requires both
  sides. Quote a phrase to match words in order.
    circuit garbled          entries matching either word
    circuit AND garbled      entries matching both words
    "garbled circuit"        the exact phrase

  Scope a term to one field with field:term. Searchable fields are title,
  author, year, note, acronyms, and id.
    author:groth             author names only
    year:2016                published in 2016
    id:C:Groth16             exact citation key

Examples:
  bibfind garbled circuits
  bibfind -t author:gentry AND homomorphic
  bibfind -l 50 "fully homomorphic encryption"
  bibfind -u                       rebuild the index`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runSearch,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&flagBib, "bib", "b", "", "bibliography file (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagIndexDir, "index-dir", "d", "", "index directory (overrides config)")
	rootCmd.Flags().BoolVarP(&flagRebuild, "rebuild", "u", false, "rebuild the index before searching")
	rootCmd.Flags().BoolVarP(&flagBibtex, "bibtex", "t", false, "include BibTeX entries in the output")
	rootCmd.Flags().IntVarP(&flagLimit, "limit", "l", 0, "maximum results to show (default from config)")
	rootCmd.Flags().StringVar(&flagOutput, "output", "text", "output format: text or json")
	rootCmd.Version = version
}

func main() {
	// A .env file can set BIBFIND_BIB, BIBFIND_INDEX_DIR, and BIBFIND_CONFIG.
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfigPath picks the config file: the --config flag, the
// BIBFIND_CONFIG environment variable, a config.yaml in the current directory
// (for development), then the system default.
func resolveConfigPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if env := os.Getenv("BIBFIND_CONFIG"); env != "" {
		return env
	}
	if cwd, err := os.Getwd(); err == nil {
		fallback := filepath.Join(cwd, "config.yaml")
		if _, err := os.Stat(fallback); err == nil {
			return fallback
		}
	}
	return defaultConfigPath
}

// loadConfig loads the resolved config file, falling back to defaults when it
// does not exist, and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(resolveConfigPath())
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if flagBib != "" {
		cfg.Bib.Path = flagBib
	}
	if flagIndexDir != "" {
		cfg.Index.Dir = flagIndexDir
	}
	if flagLimit > 0 {
		cfg.Search.Limit = flagLimit
	}
	if flagDebug {
		cfg.Debug = true
	}
}

// buildQuery joins all positional args with spaces so multi-word queries work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func newIndexer(cfg *config.Config, logger *zap.Logger) *indexer.Indexer {
	var opts []indexer.IndexerOption
	if cfg.Debug {
		opts = append(opts, indexer.WithLogger(logger))
	}
	return indexer.NewIndexer(cfg.Bib.Sources(), cfg.Index.Dir, cfg.Bib.PreprintPrefixes, opts...)
}

func indexExists(dir string) bool {
	_, err := os.Stat(dir)
	return err == nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := buildQuery(args)
	if query == "" && !flagRebuild {
		return cmd.Help()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if flagRebuild || !indexExists(cfg.Index.Dir) {
		logger.Info("rebuilding index",
			zap.Strings("sources", cfg.Bib.Sources()),
			zap.String("index", cfg.Index.Dir))
		ixr := newIndexer(cfg, logger)
		n, err := ixr.Rebuild(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to rebuild index: %w", err)
		}
		logger.Info("index rebuilt", zap.Int("documents", n))
	}
	if query == "" {
		return nil
	}

	idx, err := index.OpenAt(cfg.Index.Dir)
	if err != nil {
		if errors.Is(err, index.ErrNotExists) {
			return fmt.Errorf("no index at %s (run bibfind -u to build it)", cfg.Index.Dir)
		}
		return err
	}
	defer idx.Close()

	engine := search.NewEngine(idx)
	response, err := engine.Search(cmd.Context(), &models.SearchQuery{
		Query:         query,
		Limit:         cfg.Search.Limit,
		IncludeBibtex: flagBibtex,
	})
	if err != nil {
		return err
	}
	return writeResults(os.Stdout, cfg, response)
}

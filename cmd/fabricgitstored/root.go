// Command fabricgitstored is a thin demo CLI over the fabricgitstore
// facade: point it at a working copy, list and edit versions/profiles, and
// optionally watch the tree for external changes.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	fabricgitstore "github.com/fusesource/fabric-gitstore"
	"github.com/fusesource/fabric-gitstore/internal/attrstore"
	"github.com/fusesource/fabric-gitstore/internal/config"
	"github.com/fusesource/fabric-gitstore/internal/logging"
)

var (
	cfgFile      string
	workDir      string
	remote       string
	period       string
	attrCacheURL string

	rootCtx context.Context
	ds      *fabricgitstore.DataStore
	logger  *log.Logger

	accent = newStyle()
)

func newStyle() lipgloss.Style {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
}

var rootCmd = &cobra.Command{
	Use:   "fabricgitstored",
	Short: "Inspect and edit a fabric git configuration store",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		rootCtx = cmd.Context()
		if rootCtx == nil {
			rootCtx = context.Background()
		}

		settings, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		override := config.Settings{WorkDir: workDir, GitRemoteURL: remote}
		if period != "" {
			d, err := time.ParseDuration(period)
			if err != nil {
				return fmt.Errorf("invalid --period: %w", err)
			}
			override.GitPullPeriod = d
		}
		settings = settings.Override(override)
		if settings.WorkDir == "" {
			return fmt.Errorf("--workdir is required (or FABRIC_GITSTORE_WORKDIR)")
		}

		logger = logging.New("fabricgitstored", nil)

		var attrs attrstore.Store
		if attrCacheURL != "" {
			cachePath := filepath.Join(settings.WorkDir, ".fabric-attrcache.toml")
			caching, err := attrstore.NewCachingStore(attrstore.NewHTTPStore(attrCacheURL), cachePath, logger)
			if err != nil {
				return fmt.Errorf("attribute cache: %w", err)
			}
			attrs = caching
		}

		store, err := fabricgitstore.Activate(settings, attrs, logger)
		if err != nil {
			return fmt.Errorf("activate: %w", err)
		}
		ds = store
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ds == nil {
			return nil
		}
		return ds.Deactivate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML/TOML config file")
	rootCmd.PersistentFlags().StringVar(&workDir, "workdir", "", "working copy path (required)")
	rootCmd.PersistentFlags().StringVar(&remote, "remote", "", "git remote URL override")
	rootCmd.PersistentFlags().StringVar(&period, "period", "", "sync loop period override, e.g. 2s")
	rootCmd.PersistentFlags().StringVar(&attrCacheURL, "attr-cache", "", "external attribute coordinator base URL; when set, reads/writes are cached on disk against coordinator outages")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nats-io/bindgen/internal/cache"
)

// cacheCmd groups the generation cache subcommands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the generation cache",
	Long: `The generation cache records, per header, the hashes of the preprocessed
header and of the template plus naming convention used for the last render,
together with the output path. 'bindgen generate' skips headers whose record
still matches.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recorded generation",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List recorded generations",
	Args:  cobra.NoArgs,
	RunE:  runCacheStatus,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop records of headers that no longer exist",
	Args:  cobra.NoArgs,
	RunE:  runCachePrune,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd, cacheStatusCmd, cachePruneCmd)
}

func openCache() (*cache.Cache, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Disabled {
		return nil, fmt.Errorf("generation cache is disabled in the configuration")
	}
	return cache.Open(cfg.Cache.Dir)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", c.Path())
	return nil
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	c, err := openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	stats, err := c.GetStats(cmd.Context())
	if err != nil {
		return err
	}
	entries, err := c.All(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d generation(s) in %s\n", stats.Generations, c.Path())
	for _, e := range entries {
		fmt.Fprintf(out, "  %s -> %s [%s] %s\n", e.HeaderPath, e.OutputPath, e.HashPair(), e.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	c, err := openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	pruned, err := c.Prune(cmd.Context(), func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d stale generation(s)\n", pruned)
	return nil
}

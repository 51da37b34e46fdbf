package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"qualigap/internal/respcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the response cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show response cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Cache.Enabled && !jsonOutput {
				fmt.Fprintln(out, "Response cache is disabled (cache.enabled = false)")
			}
			store, err := respcache.Open(cfg.CacheDBPath(), nil)
			if err != nil {
				return fmt.Errorf("open response cache: %w", err)
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			fmt.Fprintf(out, "Path:     %s\n", stats.Path)
			fmt.Fprintf(out, "Enabled:  %s\n", yesNo(cfg.Cache.Enabled))
			fmt.Fprintf(out, "Entries:  %d\n", stats.Entries)
			fmt.Fprintf(out, "Payload:  %s\n", humanize.IBytes(uint64(stats.BodyBytes)))
			fmt.Fprintf(out, "On disk:  %s\n", humanize.IBytes(uint64(stats.FileBytes)))
			if stats.Entries > 0 {
				fmt.Fprintf(out, "Oldest:   %s (%s)\n", stats.OldestFill.Local().Format(stampLayout), humanize.Time(stats.OldestFill))
				fmt.Fprintf(out, "Newest:   %s (%s)\n", stats.NewestFill.Local().Format(stampLayout), humanize.Time(stats.NewestFill))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit stats as JSON")
	return cmd
}

const stampLayout = time.DateTime

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lock, err := respcache.AcquireRunLock(cfg.Cache.Dir)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			store, err := respcache.Open(cfg.CacheDBPath(), nil)
			if err != nil {
				return fmt.Errorf("open response cache: %w", err)
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s cached response(s) from %s\n", humanize.Comma(removed), store.Path())
			return nil
		},
	}
}

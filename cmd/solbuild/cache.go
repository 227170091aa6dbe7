package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/solbuild/internal/cache"
	"github.com/altuslabsxyz/solbuild/internal/output"
)

// NewCacheCmd creates the cache command group.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the compilation cache",
		Long: `Manage the content-addressed compilation cache.

Every compilation is keyed by the sha256 of its canonical compiler
input. The cache stores that input (compile_config_<key>.json) next to
the compiler output (compile_output_<key>.json), so an identical
compilation is served without running solc again.

Examples:
  # List all cached compilations
  solbuild cache list

  # Show cache totals
  solbuild cache stats

  # Drop one compilation by key
  solbuild cache remove <key>

  # Remove all cached compilations
  solbuild cache clean`,
	}

	cmd.AddCommand(
		NewCacheListCmd(),
		NewCacheStatsCmd(),
		NewCacheRemoveCmd(),
		NewCacheCleanCmd(),
	)

	return cmd
}

// compileCacheStore opens the cache at its configured location.
func compileCacheStore() (*cache.FileStore, error) {
	dir := filepath.Join(homeDir, cache.CacheSubdir)
	if fileCfg := GetLoadedFileConfig(); fileCfg != nil && fileCfg.CacheDir != nil && *fileCfg.CacheDir != "" {
		dir = *fileCfg.CacheDir
	}
	store := cache.NewFileStore(dir, output.DefaultLogger)
	if err := store.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return store, nil
}

// CacheEntryJSON represents a cache entry in JSON format.
type CacheEntryJSON struct {
	Key       string `json:"key"`
	Kind      string `json:"kind"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_human"`
	Modified  string `json:"modified"`
}

// CacheListJSON represents the cache list in JSON format.
type CacheListJSON struct {
	CacheDir     string           `json:"cache_dir"`
	TotalEntries int              `json:"total_entries"`
	TotalSize    int64            `json:"total_size"`
	TotalHuman   string           `json:"total_size_human"`
	Entries      []CacheEntryJSON `json:"entries"`
}

// NewCacheListCmd creates the cache list command.
func NewCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cached compilations",
		Long: `List all entries in the compilation cache.

Shows the cache key, entry kind (input or output document), last
modification time and size for each entry.`,
		RunE: runCacheList,
	}
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store, err := compileCacheStore()
	if err != nil {
		return err
	}

	entries, err := store.List()
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}

	// Newest first
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})

	if jsonMode {
		return outputCacheListJSON(store, entries, stats)
	}
	return outputCacheListText(entries, stats)
}

func outputCacheListJSON(store *cache.FileStore, entries []cache.Entry, stats *cache.Stats) error {
	result := CacheListJSON{
		CacheDir:     store.Dir(),
		TotalEntries: stats.TotalEntries,
		TotalSize:    stats.TotalSize,
		TotalHuman:   formatBytes(stats.TotalSize),
		Entries:      make([]CacheEntryJSON, len(entries)),
	}

	for i, entry := range entries {
		result.Entries[i] = CacheEntryJSON{
			Key:       entry.Key,
			Kind:      string(entry.Kind),
			Size:      entry.Size,
			SizeHuman: formatBytes(entry.Size),
			Modified:  entry.ModTime.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputCacheListText(entries []cache.Entry, stats *cache.Stats) error {
	if len(entries) == 0 {
		fmt.Println("No cached compilations found.")
		fmt.Println()
		fmt.Println("Compilations are cached when you run:")
		fmt.Println("  solbuild build")
		return nil
	}

	output.Bold("Cached Compilations")
	fmt.Println("────────────────────────────────────────────────────────────")
	fmt.Printf("%-14s  %-16s  %-19s  %s\n", "KEY", "KIND", "MODIFIED", "SIZE")
	fmt.Println("────────────────────────────────────────────────────────────")

	for _, entry := range entries {
		key := entry.Key
		if len(key) > 12 {
			key = key[:12]
		}
		fmt.Printf("%-14s  %-16s  %-19s  %s\n",
			key, entry.Kind, entry.ModTime.Format("2006-01-02 15:04:05"), formatBytes(entry.Size))
	}

	fmt.Println("────────────────────────────────────────────────────────────")
	fmt.Printf("Total: %d entries, %s\n", stats.TotalEntries, formatBytes(stats.TotalSize))
	fmt.Println()

	return nil
}

// CacheStatsJSON represents cache statistics in JSON format.
type CacheStatsJSON struct {
	CacheDir       string `json:"cache_dir"`
	TotalEntries   int    `json:"total_entries"`
	TotalSize      int64  `json:"total_size"`
	TotalSizeHuman string `json:"total_size_human"`
}

// NewCacheStatsCmd creates the cache stats command.
func NewCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Long: `Show statistics about the compilation cache.

Displays:
- Cache directory location
- Total cached entries and size`,
		RunE: runCacheStats,
	}
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := compileCacheStore()
	if err != nil {
		return err
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	if jsonMode {
		result := CacheStatsJSON{
			CacheDir:       store.Dir(),
			TotalEntries:   stats.TotalEntries,
			TotalSize:      stats.TotalSize,
			TotalSizeHuman: formatBytes(stats.TotalSize),
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	output.Bold("Cache Statistics")
	fmt.Println("────────────────────────────────────────────────────────────")
	fmt.Printf("Cache Directory:  %s\n", store.Dir())
	fmt.Printf("Cached Entries:   %d\n", stats.TotalEntries)
	fmt.Printf("Total Size:       %s\n", formatBytes(stats.TotalSize))
	fmt.Println("────────────────────────────────────────────────────────────")
	fmt.Println()

	return nil
}

// NewCacheRemoveCmd creates the cache remove command.
func NewCacheRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove one cached compilation by key",
		Long: `Remove the input and output documents of one cached compilation.

The key is the full 64-character hash shown by 'cache list --json'.`,
		Args: cobra.ExactArgs(1),
		RunE: runCacheRemove,
	}
}

func runCacheRemove(cmd *cobra.Command, args []string) error {
	store, err := compileCacheStore()
	if err != nil {
		return err
	}

	key := args[0]
	if err := store.Remove(key); err != nil {
		return err
	}

	if jsonMode {
		result := map[string]interface{}{
			"status": "removed",
			"key":    key,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		output.Success("Removed cached compilation %s", key[:12])
	}
	return nil
}

// NewCacheCleanCmd creates the cache clean command.
func NewCacheCleanCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove all cached compilations",
		Long: `Remove every entry from the compilation cache.

This frees disk space but the next build recompiles everything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClean(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runCacheClean(force bool) error {
	store, err := compileCacheStore()
	if err != nil {
		return err
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	if stats.TotalEntries == 0 {
		fmt.Println("Cache is already empty.")
		return nil
	}

	// Confirm unless forced
	if !force && !jsonMode {
		fmt.Printf("This will remove %d cached entries (%s).\n", stats.TotalEntries, formatBytes(stats.TotalSize))
		confirmed, err := confirmPrompt("Proceed with cache clean?")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.Clean(); err != nil {
		return fmt.Errorf("failed to clean cache: %w", err)
	}

	if jsonMode {
		result := map[string]interface{}{
			"status":          "cleaned",
			"entries_removed": stats.TotalEntries,
			"bytes_freed":     stats.TotalSize,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		output.Success("Cache cleaned: %d entries removed (%s freed)", stats.TotalEntries, formatBytes(stats.TotalSize))
	}

	return nil
}

// formatBytes formats bytes as human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

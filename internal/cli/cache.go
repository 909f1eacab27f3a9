package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinout/pkg/cache"
	"github.com/matzehuels/pinout/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the artifact cache",
		Long: `Rendered artifacts are cached by description, options and assets.
The subcommands act on the local file cache; a Redis cache expires on its own.`,
	}
	cmd.AddCommand(c.cacheInfoCommand(), c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache backend and its size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			backend := c.Config.Cache.Backend
			switch backend {
			case config.CacheRedis:
				r := c.Config.Cache.Redis
				writeFields(out, "backend", backend, "address", r.Addr, "prefix", r.Prefix)
				return nil
			case config.CacheNone:
				writeFields(out, "backend", backend)
				return nil
			}
			fc, err := c.localCache()
			if err != nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return err
			}
			writeFields(out,
				"backend", backend,
				"directory", fc.Dir(),
				"entries", fmt.Sprint(st.Entries),
				"expired", fmt.Sprint(st.Expired),
				"size", formatBytes(st.Bytes),
			)
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if b := c.Config.Cache.Backend; b != config.CacheFile {
				printInfo("Cache backend is %s; nothing to clear locally", b)
				return nil
			}
			fc, err := c.localCache()
			if err != nil {
				return err
			}
			what, remove := "cached", fc.Clear
			if expired {
				what, remove = "expired", fc.Prune
			}
			n, err := remove()
			if err != nil {
				return err
			}
			c.Logger.Debug("cache cleared", "dir", fc.Dir(), "removed", n, "expired_only", expired)
			printSuccess("Removed %d %s entries", n, what)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove entries past their expiry")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// localCache opens the file cache at the configured directory.
func (c *CLI) localCache() (*cache.FileCache, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// writeFields prints key/value pairs as an aligned two-column list.
func writeFields(w io.Writer, kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(w, "%-10s %s\n", kv[i]+":", kv[i+1])
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}

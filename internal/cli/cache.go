package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cropsy/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the computed value cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and Panner values",
		Long: `Remove every entry from the configured cache backend. Only the redis backend
outlives a process; the memory backend is always empty here.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()

			store, err := cache.New(ctx, cfg.CacheOptions())
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo("Cache backend %q holds nothing to clear", cfg.Cache.Backend)
				return nil
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Backend: %s", backendLabel(cfg.Cache.Backend))
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the configured cache backend",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := c.config().Cache
			printKeyValue("Backend", backendLabel(cfg.Backend))
			printKeyValue("TTL", cfg.TTL.String())
			if cfg.Namespace != "" {
				printKeyValue("Namespace", cfg.Namespace)
			}
			switch cfg.Backend {
			case cache.BackendRedis:
				printKeyValue("Address", cfg.RedisAddr)
				printKeyValue("Database", fmt.Sprint(cfg.RedisDB))
				printKeyValue("Prefix", cfg.RedisPrefix)
			case cache.BackendMemory, "":
				printKeyValue("Max entries", fmt.Sprint(cfg.MaxEntries))
			}
		},
	}
}

func backendLabel(name string) string {
	if name == "" {
		return cache.BackendMemory
	}
	return name
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "github.com/rushteam/rankit/config/builders"
)

var rootCmd = &cobra.Command{
	Use:           "rankit",
	Short:         "Recommendation and search ranking engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to the YAML config file")
	flags.String("fixture", "", "YAML fixture loaded into the store before running")
	flags.String("store", "", "store backend (memory, redis), overrides the config file")
	flags.String("redis-addr", "", "redis address, overrides store.options.addr")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (json, text)")

	for _, name := range []string{"config", "fixture", "store", "redis-addr", "log-level", "log-format"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("rankit")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(recommendCmd(), searchCmd(), discoverCmd(), loadCmd(), serveCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "rankit:", err)
		os.Exit(1)
	}
}

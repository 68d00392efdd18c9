package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"finitefield.org/flor-web/internal/config"
)

// newRootCmd assembles the command tree. Tests build their own tree so flag state never leaks
// between runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flor-web",
		Short:         "Flor storefront web server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args)
		},
	}
	root.PersistentFlags().String("config", "", "config file (default ./flor-web.yaml or /etc/flor-web/flor-web.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	addServeFlags(root.Flags())

	root.AddCommand(newServeCmd(), newCatalogueCmd())
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flagKeys maps CLI flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"addr":      "server.addr",
	"dev":       "dev",
	"file":      "catalogue.path",
}

// loadConfig resolves configuration with the command's flags layered on top of the file and
// environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return nil, fmt.Errorf("bind flags: %w", bindErr)
	}
	opts := []config.Option{config.WithViper(v)}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithFile(path))
	}
	return config.Load(opts...)
}

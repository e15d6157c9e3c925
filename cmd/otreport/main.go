// Command otreport generates pediatric occupational therapy evaluation
// reports from assessment files without running the HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/otreport/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootCmd struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	rc := &rootCmd{}
	cmd := &cobra.Command{
		Use:           "otreport",
		Short:         "Generate occupational therapy evaluation reports",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(rc.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rc.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&rc.configPath, "config", config.BaseConfigFile, "Path to the TOML configuration file")

	cmd.AddCommand(newGenerateCmd(rc))
	cmd.AddCommand(newInstrumentsCmd())
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/envirollm/llm-energy-bench/server"
)

var startPort string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the benchmark engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if startPort != "" {
			cfg.Port = startPort
		}
		return server.Run(cfg)
	},
}

func init() {
	startCmd.Flags().StringVar(&startPort, "port", "", "listen port (default from config)")
}

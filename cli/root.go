// Package cli implements the envirollm command-line interface. Apart
// from `start`, every command talks to a running engine over HTTP.
package cli

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/envirollm/llm-energy-bench/config"
)

var (
	serverURL  string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "envirollm",
	Short: "Benchmark local LLMs on energy, speed, and output quality",
	Long: `EnviroLLM benchmarks local large-language-model deployments
(Ollama, LM-Studio, and other OpenAI-compatible servers) on energy
consumption, inference speed, and output quality, and ranks the results.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8001", "engine base URL")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs", "config directory")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(benchmarkOpenAICmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(cleanCmd)
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func httpClient() *http.Client {
	// Generation can take minutes; the benchmark commands wait it out.
	return &http.Client{Timeout: 30 * time.Minute}
}

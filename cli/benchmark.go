package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envirollm/llm-energy-bench/api/handlers"
	"github.com/envirollm/llm-energy-bench/db"
)

const defaultPrompt = "Explain the difference between renewable and non-renewable energy sources in a few sentences."

var (
	benchModels []string
	benchPrompt string
	benchNotes  string

	openaiURL    string
	openaiModel  string
	openaiPrompt string
	openaiKey    string
	openaiNotes  string
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark one or more Ollama models",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(benchModels) == 0 {
			return fmt.Errorf("--models is required")
		}

		body, _ := json.Marshal(handlers.OllamaBenchmarkRequest{
			Models: benchModels,
			Prompt: benchPrompt,
			Notes:  benchNotes,
		})

		fmt.Printf("Benchmarking %s...\n", strings.Join(benchModels, ", "))
		resp, err := httpClient().Post(serverURL+"/ollama/benchmark", "application/json", bytes.NewReader(body))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("benchmark failed: %s", strings.TrimSpace(string(msg)))
		}

		var out struct {
			Results []db.BenchmarkRecord `json:"results"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		for _, rec := range out.Results {
			printRecord(rec)
		}
		return nil
	},
}

var benchmarkOpenAICmd = &cobra.Command{
	Use:   "benchmark-openai",
	Short: "Benchmark a model on an OpenAI-compatible server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if openaiURL == "" || openaiModel == "" {
			return fmt.Errorf("--url and --model are required")
		}

		body, _ := json.Marshal(handlers.OpenAIBenchmarkRequest{
			BaseURL: openaiURL,
			Model:   openaiModel,
			Prompt:  openaiPrompt,
			APIKey:  openaiKey,
			Notes:   openaiNotes,
		})

		fmt.Printf("Benchmarking %s at %s...\n", openaiModel, openaiURL)
		resp, err := httpClient().Post(serverURL+"/openai/benchmark", "application/json", bytes.NewReader(body))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("benchmark failed: %s", strings.TrimSpace(string(msg)))
		}

		var out struct {
			Result db.BenchmarkRecord `json:"result"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		printRecord(out.Result)
		return nil
	},
}

func printRecord(rec db.BenchmarkRecord) {
	if rec.Status == db.StatusFailed {
		fmt.Printf("  %-30s FAILED: %s\n", rec.ModelName, rec.Error)
		return
	}

	m := rec.Metrics
	line := fmt.Sprintf("  %-30s %.2f Wh  %.1f W avg  %.1fs", rec.ModelName,
		m.TotalEnergyWh, m.AvgPowerWatts, m.DurationSeconds)
	if m.TokensPerSecond != nil {
		line += fmt.Sprintf("  %.1f tok/s", *m.TokensPerSecond)
	}
	if rec.QualityMetrics != nil {
		line += fmt.Sprintf("  quality %.0f/100 (%s)",
			rec.QualityMetrics.QualityScore, rec.QualityMetrics.QualityMethod)
	}
	fmt.Println(line)
}

func init() {
	benchmarkCmd.Flags().StringSliceVar(&benchModels, "models", nil, "Ollama model tags to benchmark")
	benchmarkCmd.Flags().StringVar(&benchPrompt, "prompt", defaultPrompt, "prompt to run")
	benchmarkCmd.Flags().StringVar(&benchNotes, "notes", "", "free-text annotation stored with the records")

	benchmarkOpenAICmd.Flags().StringVar(&openaiURL, "url", "", "base URL of the OpenAI-compatible server (with /v1)")
	benchmarkOpenAICmd.Flags().StringVar(&openaiModel, "model", "", "model name")
	benchmarkOpenAICmd.Flags().StringVar(&openaiPrompt, "prompt", defaultPrompt, "prompt to run")
	benchmarkOpenAICmd.Flags().StringVar(&openaiKey, "api-key", "", "bearer token, if the server requires one")
	benchmarkOpenAICmd.Flags().StringVar(&openaiNotes, "notes", "", "free-text annotation stored with the record")
}

package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/envirollm/llm-energy-bench/api/handlers"
	"github.com/envirollm/llm-energy-bench/sysmetrics"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show engine, Ollama, and LM-Studio status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := httpClient()

		var live sysmetrics.LiveMetrics
		if err := getJSON(client, serverURL+"/metrics", &live); err != nil {
			return fmt.Errorf("engine not reachable at %s: %w", serverURL, err)
		}
		fmt.Printf("Engine:    up at %s\n", serverURL)
		fmt.Printf("CPU:       %.1f%%   Memory: %.1f%%   Power: ~%.1f W\n",
			live.CPUUsage, live.MemoryUsage, live.PowerEstimate)
		if live.GPUInfo.Available {
			for _, gpu := range live.GPUInfo.GPUs {
				fmt.Printf("GPU %d:     %s (%.0f%%, %.1f W)\n",
					gpu.ID, gpu.Name, gpu.UsagePercent, gpu.PowerWatts)
			}
		} else {
			fmt.Println("GPU:       none detected")
		}

		var ollama handlers.OllamaStatusResponse
		if err := getJSON(client, serverURL+"/ollama/status", &ollama); err == nil && ollama.Available {
			fmt.Printf("Ollama:    available (%d models)\n", ollama.ModelCount)
		} else {
			fmt.Println("Ollama:    not running")
		}

		var lmstudio handlers.LMStudioStatusResponse
		if err := getJSON(client, serverURL+"/lmstudio/status", &lmstudio); err == nil && lmstudio.Available {
			fmt.Printf("LM-Studio: available (%d models)\n", len(lmstudio.Models))
		} else {
			fmt.Println("LM-Studio: not running")
		}
		return nil
	},
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

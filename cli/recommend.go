package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envirollm/llm-energy-bench/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank benchmarked models by energy, speed, and quality",
	RunE: func(cmd *cobra.Command, args []string) error {
		var recs recommend.Recommendations
		if err := getJSON(httpClient(), serverURL+"/benchmarks/recommendations", &recs); err != nil {
			return fmt.Errorf("engine not reachable at %s: %w", serverURL, err)
		}

		if recs.BestOverall == nil && recs.MostEfficient == nil &&
			recs.Fastest == nil && recs.BestQuality == nil {
			fmt.Println("No completed benchmarks yet. Run `envirollm benchmark` first.")
			return nil
		}

		printPick("Best overall", recs.BestOverall, "quality/Wh")
		printPick("Most efficient", recs.MostEfficient, "Wh")
		printPick("Fastest", recs.Fastest, "tok/s")
		printPick("Best quality", recs.BestQuality, "/100")
		return nil
	},
}

func printPick(label string, pick *recommend.Pick, unit string) {
	if pick == nil {
		return
	}
	fmt.Printf("%-15s %-30s %.2f %s\n", label+":", pick.ModelName, pick.Value, unit)
}

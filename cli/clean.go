package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the persisted benchmark store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := cfg.Store.Path
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Printf("No store at %s, nothing to clean.\n", path)
			return nil
		}

		fmt.Printf("This deletes all benchmark results at %s. Continue? [y/N] ", path)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}

		for _, f := range []string{path, path + "-wal", path + "-shm"} {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove %s: %w", f, err)
			}
		}
		fmt.Println("Store deleted.")
		return nil
	},
}

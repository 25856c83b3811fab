package main

import (
	"os"

	"github.com/envirollm/llm-energy-bench/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

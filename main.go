// HealthKey - a personal physiological event logger.

package main

import (
	"os"

	"github.com/Elmersong/HealthKey/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

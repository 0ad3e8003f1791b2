package main

import (
	"fmt"
	"os"

	"go.viam.com/rdk/logging"
)

var logger = logging.NewLogger("rrr-cli")

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

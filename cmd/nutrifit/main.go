// Command nutrifit is a command line client for the NutriFit AI insights API.
package main

import (
	"os"

	"github.com/nutrifit/nutrifit-backend/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

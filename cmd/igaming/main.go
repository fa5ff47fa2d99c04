package main

import (
	"github.com/BayoGabriel/igaming/internal/cli"
)

func main() {
	cli.Execute()
}

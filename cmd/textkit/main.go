package main

import (
	"os"

	"github.com/Adithya-Monish-Kumar-K/textkit/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}

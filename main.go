package main

import (
	"os"

	"github.com/robalobadob/minesweeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

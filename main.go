package main

import (
	"context"
	"os"

	"github.com/Rana718/rushmore/cmd"
	"github.com/fatih/color"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}
}

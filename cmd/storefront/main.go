package main

import (
	"context"
	"os"

	"github.com/eshaffer321/storefront/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

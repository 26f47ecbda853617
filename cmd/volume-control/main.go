package main

import (
	"context"
	"os"

	"volume-control/internal/adapter/primary/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stderr))
}

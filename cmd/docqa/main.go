package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"docqa/internal/cli"
	"docqa/internal/domain"
)

func main() {
	_ = godotenv.Load()

	if err := cli.Execute(context.Background()); err != nil {
		var dlErr *domain.DownloadError
		if errors.As(err, &dlErr) {
			fmt.Fprintln(os.Stderr, dlErr.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

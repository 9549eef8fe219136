package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/doeshing/retest-go/internal/infrastructure/cli"
	"github.com/doeshing/retest-go/internal/infrastructure/cli/commands"
)

const envDebug = "RETEST_DEBUG"

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root, container, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	err = root.ExecuteContext(ctx)
	if closeErr := container.Close(); closeErr != nil {
		fmt.Fprintln(os.Stderr, "error:", closeErr)
	}
	if err != nil {
		if !errors.Is(err, commands.ErrNotOK) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func isVerbose() bool {
	v := os.Getenv(envDebug)
	return strings.EqualFold(v, "1") || strings.EqualFold(v, "true")
}

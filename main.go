package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/aprop/cli"
	"github.com/ardnew/aprop/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// *props.Error implements slog.LogValuer.
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

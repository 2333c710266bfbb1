package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Chative-storefront/server/internal/cli"
	logx "github.com/Chative-storefront/server/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logx.Init()
	if err := cli.Execute(ctx); err != nil {
		logx.Error().Err(err).Msg("storefront failed")
		stop()
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/Chative-storefront/server/internal/app"
	"github.com/Chative-storefront/server/internal/shop/model"
)

// demoScript walks through every flow of the assistant.
var demoScript = []string{
	"show",
	"send 我要50箱可乐和20盒薯片",
	"wait",
	"send 下周销售预测",
	"wait",
	"add 1 2",
	"add 2",
	"draft",
	"add 3",
	"confirm last",
	"add 4",
	"wait",
	"camera scan",
	"wait",
	"new",
	"voice",
	"wait",
	"sessions",
	"checkout",
	"orders 待接单",
}

func newDemoCommand(opts *rootOptions) *cobra.Command {
	var instant bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted walkthrough of the ordering assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engineCfg := app.Config{}
			if instant {
				opts.config.Delays = model.DelayConfig{}
			}
			rt, err := buildRuntime(ctx, opts.config, engineCfg)
			if err != nil {
				return err
			}
			defer rt.cleanup()
			return runDemo(ctx, rt.engine, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&instant, "instant", false, "skip the simulated delays")
	return cmd
}

func runDemo(ctx context.Context, e *app.Engine, out io.Writer) error {
	sh := newShell(e, out)
	for _, line := range demoScript {
		sh.render.printf("\n> %s\n", line)
		if err := sh.exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
	return nil
}

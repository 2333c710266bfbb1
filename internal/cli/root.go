package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Chative-storefront/server/internal/app"
	logx "github.com/Chative-storefront/server/pkg/logger"
)

type rootOptions struct {
	envFile string
	verbose bool
	config  AppConfig
}

// NewRootCommand builds the storefront command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Wholesale ordering assistant for the terminal",
		Long: `storefront simulates a wholesale shop's ordering assistant: a cart,
a product catalog, chat sessions with scripted replies and an order list.

Sessions are kept in memory unless REDIS_URL is set.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.envFile)
			if err != nil {
				return err
			}
			opts.config = cfg
			logx.Init(logx.LoggerOpts{Environment: cfg.Env(), Output: cmd.ErrOrStderr()})
			if !opts.verbose {
				logx.Quiet()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log below error level")

	root.AddCommand(newDemoCommand(opts), newShellCommand(opts))
	return root
}

func newShellCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Drive the assistant interactively from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := buildRuntime(ctx, opts.config, app.Config{})
			if err != nil {
				return err
			}
			defer rt.cleanup()

			sh := newShell(rt.engine, cmd.OutOrStdout())
			sh.render.session(rt.engine.ActiveSession())
			return sh.run(ctx, cmd.InOrStdin())
		},
	}
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

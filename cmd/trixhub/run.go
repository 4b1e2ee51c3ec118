package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theoremus-urban-solutions/trixhub/display"
	"github.com/theoremus-urban-solutions/trixhub/formatter"
	"github.com/theoremus-urban-solutions/trixhub/providers"
	"github.com/theoremus-urban-solutions/trixhub/scheduler"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the display rotation",
		Long: `Run the configured scheduler until SIGINT or SIGTERM, then clear the display.
With --debug, screens are printed to stdout as text instead of posted to the matrix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			deps := providerDeps(cfg, logger)
			set, _ := providers.BuildSet(cfg, providers.RotationNames(cfg.Scheduler), deps)

			var (
				renderer display.Renderer
				client   display.Client
			)
			if debug {
				renderer = formatter.NewText(cfg.Matrix.Width, cfg.Matrix.Height)
				client = display.NewConsoleClient(cmd.OutOrStdout())
			} else {
				renderer = formatter.NewJSON(cfg.Matrix.Width, cfg.Matrix.Height)
				client = display.NewHTTPClient(cfg.Matrix.ServerHostname, cfg.Matrix.Width, cfg.Matrix.Height,
					time.Duration(cfg.Matrix.TimeoutSeconds)*time.Second, logger)
			}

			sched, err := scheduler.New(cfg.Scheduler, scheduler.Deps{
				Providers: set,
				Renderer:  renderer,
				Client:    client,
				Now:       deps.Now,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				sched.Shutdown()
			}()

			logger.Info().Str("mode", cfg.Scheduler.Mode).Strs("providers", set.Names()).Bool("debug", debug).
				Msg("trixhub starting")
			runErr := sched.Run(ctx)

			if !debug {
				clearCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if !client.Clear(clearCtx) {
					logger.Warn().Msg("failed to clear display on shutdown")
				}
			}
			if errors.Is(runErr, context.Canceled) {
				return nil
			}
			return runErr
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "print screens to stdout instead of posting to the matrix")
	return cmd
}

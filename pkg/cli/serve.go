package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/pollwiz/pollwiz/pkg/cli/config"
	httpctrl "github.com/pollwiz/pollwiz/pkg/controller/http"
	"github.com/pollwiz/pollwiz/pkg/usecase"
	"github.com/pollwiz/pollwiz/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var repoCfg config.Repository
	var slackCfg config.Slack
	var stripeCfg config.Stripe
	var plansCfg config.Plans

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("POLLWIZ_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL of the application (e.g., https://your-domain.com)",
			Sources:     cli.EnvVars("POLLWIZ_BASE_URL"),
			Destination: &baseURL,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, stripeCfg.Flags()...)
	flags = append(flags, plansCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			slackSvc, err := slackCfg.Configure(baseURL)
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack service")
			}

			plans, err := plansCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load plan catalog")
			}

			ucOpts := []usecase.Option{
				usecase.WithPlans(plans),
			}

			if stripeCfg.IsConfigured() {
				billingSvc, err := stripeCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to initialize billing service")
				}
				ucOpts = append(ucOpts, usecase.WithBilling(billingSvc))
				logging.Default().Info("Billing service enabled")
			} else {
				logging.Default().Info("Stripe secret key not configured, subscriptions are disabled")
			}

			uc := usecase.New(repo, ucOpts...)

			httpHandler := httpctrl.New(uc,
				httpctrl.WithSlackService(slackSvc),
				httpctrl.WithSlackSigningSecret(slackCfg.SigningSecret()),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cogni-dao/cogni-git-admin/pkg/cli/config"
	controller "github.com/cogni-dao/cogni-git-admin/pkg/controller/http"
	"github.com/cogni-dao/cogni-git-admin/pkg/infra/chain"
	"github.com/cogni-dao/cogni-git-admin/pkg/infra/onchain"
	"github.com/cogni-dao/cogni-git-admin/pkg/usecase"
	"github.com/cogni-dao/cogni-git-admin/pkg/usecase/action"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		chainCfg  config.Chain
		githubCfg config.GitHub
		sentryCfg config.Sentry
		slackCfg  config.Slack
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, chainCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting cogni-git-admin server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("chain", chainCfg),
				slog.Any("github", githubCfg),
				slog.Any("sentry", sentryCfg),
				slog.Any("slack", slackCfg),
			)

			if err := chainCfg.Validate(); err != nil {
				return err
			}
			chainID, err := chainCfg.ChainIDInt()
			if err != nil {
				return err
			}

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			ethClient, err := chainCfg.NewClient(ctx)
			if err != nil {
				return err
			}
			defer ethClient.Close()

			ghClient, err := githubCfg.NewClient()
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			// Assemble the signal pipeline
			actions := action.NewDefaultRegistry()
			factory := usecase.NewVCSFactory(usecase.AllowAllPolicy{}, ghClient)
			executor := usecase.NewExecutor(factory, actions)
			validator := usecase.NewValidator(chainID, chainCfg.DAOAddress, actions,
				usecase.WithRequireExtra(chainCfg.RequireSignalExtra),
			)

			var signalOpts []usecase.SignalOption
			notifier, err := slackCfg.NewNotifier()
			if err != nil {
				return goerr.Wrap(err, "failed to create Slack notifier")
			}
			if notifier != nil {
				signalOpts = append(signalOpts, usecase.WithAuditNotifier(notifier))
			}

			signalUC := usecase.NewSignalUseCase(
				chain.NewFetcher(ethClient),
				chainCfg.SignalContract,
				validator,
				executor,
				signalOpts...,
			)

			providers := onchain.NewRegistry(onchain.NewAlchemy(chainCfg.AlchemySigningKey))

			server, err := controller.NewServer(
				ctx,
				providers,
				signalUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithMaxBodySize(serverCfg.MaxBodySize),
				controller.WithSentry(sentryCfg.Enabled()),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting",
					slog.String("addr", serverCfg.Addr),
					slog.Any("actions", actions.Available()),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}
			if err := signalUC.Wait(shutdownCtx); err != nil {
				logger.Warn("audit notifications still pending at shutdown", slog.Any("error", err))
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

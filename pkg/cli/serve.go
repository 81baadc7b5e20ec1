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

	"github.com/Business010101/aimodbot/pkg/cli/config"
	discordctrl "github.com/Business010101/aimodbot/pkg/controller/discord"
	httpctrl "github.com/Business010101/aimodbot/pkg/controller/http"
	"github.com/Business010101/aimodbot/pkg/usecase"
	"github.com/Business010101/aimodbot/pkg/utils/logging"
	"github.com/Business010101/aimodbot/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var geminiCfg config.Gemini
	var discordCfg config.Discord
	var repoCfg config.Repository
	var policyCfg config.Policy

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Status HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("AIMODBOT_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, discordCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Connect to Discord and serve administrative commands",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Serve configuration",
				"addr", addr,
				"gemini", geminiCfg,
				"discord", discordCfg,
				"repository", repoCfg.Backend(),
				"policy", policyCfg,
			)

			// Repository
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// Confirmation policy
			policy, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load policy")
			}

			// LLM client
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}

			// Discord gateway
			client, err := discordCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Discord client")
			}

			uc := usecase.New(repo, llmClient, client, usecase.WithPolicy(policy))

			if err := client.Open(); err != nil {
				return goerr.Wrap(err, "failed to connect to Discord gateway")
			}
			defer safe.Close(ctx, client)
			logger.Info("Connected to Discord gateway",
				"bot", client.BotUsername(),
				"guilds", client.GuildCount(),
			)

			handler := discordctrl.New(client, uc, discordCfg.AppID(), discordCfg.GuildID())
			if err := handler.Register(logging.With(ctx, logger)); err != nil {
				return goerr.Wrap(err, "failed to register interaction handler")
			}
			defer handler.Shutdown()

			// Status server for liveness probes
			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(client),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting status server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start status server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown status server gracefully")
				}

				logger.Info("Shutdown completed")
				return nil
			}
		},
	}
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/memovox/memovox/pkg/cli/config"
	httpctrl "github.com/memovox/memovox/pkg/controller/http"
	"github.com/memovox/memovox/pkg/service/llm"
	"github.com/memovox/memovox/pkg/usecase"
	"github.com/memovox/memovox/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var baseURL string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var twilioCfg config.Twilio
	var whisperCfg config.Whisper
	var transcodeCfg config.Transcode
	var storageCfg config.Storage
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MEMOVOX_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public base URL the gateway signs webhooks against (e.g., https://your-domain.com)",
			Sources:     cli.EnvVars("MEMOVOX_BASE_URL"),
			Destination: &baseURL,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, twilioCfg.Flags()...)
	flags = append(flags, whisperCfg.Flags()...)
	flags = append(flags, transcodeCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the webhook HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			flushSentry, err := sentryCfg.Configure(version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer flushSentry()

			pipelineCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithConfig(pipelineCfg),
			}

			media, err := twilioCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize twilio client")
			}
			if media != nil {
				ucOpts = append(ucOpts, usecase.WithMediaSource(media))
				logger.Info("Twilio media client enabled", "twilio", twilioCfg)
			} else {
				logger.Warn("Twilio credentials not configured, voice notes will be rejected")
			}

			transcoder, err := transcodeCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize converter client")
			}
			if transcoder != nil {
				ucOpts = append(ucOpts, usecase.WithTranscoder(transcoder))
			} else {
				logger.Warn("Converter URL not configured, voice notes will be rejected")
			}

			stt, err := whisperCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize whisper client")
			}
			if stt != nil {
				ucOpts = append(ucOpts, usecase.WithSpeechToText(stt))
			} else {
				logger.Warn("OpenAI API key not configured, voice notes will be rejected")
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize gemini client")
			}
			if llmClient != nil {
				llmSvc, err := llm.New(llmClient)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize LLM service")
				}
				ucOpts = append(ucOpts,
					usecase.WithEmbedder(llmSvc),
					usecase.WithCompleter(llmSvc),
					usecase.WithTagSuggester(llmSvc),
				)
				logger.Info("Gemini LLM enabled")
			} else {
				logger.Warn("Gemini not configured, running without embeddings, tags, and chat replies")
			}

			archive, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize audio archive")
			}
			if archive != nil {
				defer func() {
					if err := archive.Close(); err != nil {
						logger.Error("failed to close audio archive", "error", err.Error())
					}
				}()
				ucOpts = append(ucOpts, usecase.WithAudioArchive(archive))
				logger.Info("Audio archive enabled")
			}

			uc := usecase.New(repo, ucOpts...)

			webhookHandler := httpctrl.NewTwilioWebhookHandler(uc)
			srvOpts := []httpctrl.Options{
				httpctrl.WithTwilioWebhook(webhookHandler, twilioCfg.AuthToken()),
			}
			if baseURL != "" {
				srvOpts = append(srvOpts, httpctrl.WithBaseURL(baseURL))
			}
			if twilioCfg.AuthToken() == "" {
				logger.Warn("Webhook signature verification disabled (no Twilio auth token)")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(srvOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gCtx := errgroup.WithContext(sigCtx)
			g.Go(func() error {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server failed")
				}
				return nil
			})
			g.Go(func() error {
				<-gCtx.Done()
				logger.Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shut down HTTP server")
				}
				return nil
			})

			if err := g.Wait(); err != nil {
				return err
			}

			logger.Info("Server stopped")
			return nil
		},
	}
}

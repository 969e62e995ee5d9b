package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/server"
	"github.com/thomas-vilte/matereview/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Reviewer interface {
	Review(ctx context.Context, req models.ReviewRequest) (models.ReviewResult, error)
}

type ReviewerProvider func(ctx context.Context) (Reviewer, error)

type ServeCommandFactory struct {
	reviewerProvider ReviewerProvider
}

func NewServeCommandFactory(reviewerProvider ReviewerProvider) *ServeCommandFactory {
	return &ServeCommandFactory{reviewerProvider: reviewerProvider}
}

func (f *ServeCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   t.GetMessage("serve_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: t.GetMessage("addr_flag_usage", 0, nil),
				Value: cfg.Server.Addr,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			reviewer, err := f.reviewerProvider(ctx)
			if err != nil {
				return err
			}

			serverCfg := cfg.Server
			serverCfg.Addr = command.String("addr")

			handler := server.NewHandler(reviewer, t, cfg.Server.RequestTimeout.Duration)
			srv := server.New(serverCfg, server.NewMux(handler))

			ui.PrintInfo(command.Root().ErrWriter, t.GetMessage("server_listening", 0, map[string]interface{}{"Addr": srv.Addr()}))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(srv.Start)
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				logger.Info(ctx, "shutting down API server")
				return srv.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				return err
			}

			ui.PrintSuccess(command.Root().ErrWriter, t.GetMessage("server_stopped", 0, nil))
			return nil
		},
	}
}

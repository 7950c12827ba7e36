package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/liut/tutorbot/pkg/client"
	"github.com/liut/tutorbot/pkg/console"
	"github.com/liut/tutorbot/pkg/services/stores"
	"github.com/liut/tutorbot/pkg/settings"
	"github.com/liut/tutorbot/pkg/web"
	"github.com/liut/tutorbot/pkg/widget"
)

func main() {
	var zlogger *zap.Logger
	if settings.InDevelop() {
		zlogger, _ = zap.NewDevelopment()
	} else {
		zlogger, _ = zap.NewProduction()
	}
	defer func() { _ = zlogger.Sync() }()
	zap.ReplaceGlobals(zlogger)

	app := &cli.App{
		Name:    settings.Name,
		Usage:   "a course Q&A chat widget and its backend",
		Version: settings.Current.Version,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the /ask and /history backend",
				Action: serveAction,
			},
			{
				Name:  "chat",
				Usage: "chat with a backend in this terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Value: settings.Current.BackendURL, Usage: "backend base url"},
					&cli.StringFlag{Name: "email", Usage: "registered account, enables history", EnvVars: []string{"TUTORBOT_EMAIL"}},
					&cli.StringFlag{Name: "password", EnvVars: []string{"TUTORBOT_PASSWORD"}},
					&cli.DurationFlag{Name: "timeout", Value: time.Second * 90},
				},
				Action: chatAction,
			},
			{
				Name:      "hashpw",
				Usage:     "print a users entry for TUTORBOT_USERS",
				ArgsUsage: "email password",
				Action:    hashAction,
			},
			{
				Name:  "usage",
				Usage: "show environment settings",
				Action: func(c *cli.Context) error {
					return settings.Usage()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.S().Errorw("run fail", "err", err)
		os.Exit(1)
	}
}

func serveAction(c *cli.Context) error {
	sugar := zap.S()
	srv, err := web.New(web.Config{
		Addr:  settings.Current.HTTPListen,
		Debug: settings.InDevelop(),
	})
	if err != nil {
		return err
	}

	idleClosed := make(chan struct{})
	ctx := context.Background()
	go func() {
		quit := make(chan os.Signal, 2)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		sugar.Info("shuting down server...")
		if err := srv.Stop(ctx); err != nil {
			sugar.Infow("server shutdown:", "err", err)
		}
		close(idleClosed)
	}()

	if err := srv.Serve(ctx); err != nil {
		sugar.Infow("serve fail", "err", err)
		return err
	}

	<-idleClosed
	return nil
}

func chatAction(c *cli.Context) error {
	opts := []client.Option{client.WithTimeout(c.Duration("timeout"))}
	if email := c.String("email"); len(email) > 0 {
		opts = append(opts, client.WithBasicAuth(email, c.String("password")))
	}
	api := client.New(c.String("url"), opts...)

	preset, err := stores.LoadPreset()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ts := widget.NewTranscript(console.NewPrinter(os.Stdout))
	w := widget.New(api, widget.Controls{
		Transcript:     ts,
		HistoryEnabled: api.Registered(),
	}, widget.WithTexts(preset.Texts))

	err = console.Run(ctx, w, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func hashAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: hashpw email password", 2)
	}
	hash, err := stores.HashPassword(c.Args().Get(1))
	if err != nil {
		return err
	}
	fmt.Printf("%s:%s\n", c.Args().Get(0), hash)
	return nil
}

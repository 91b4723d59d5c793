package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cupogo/andvari/utils/zlog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/liut/chatbot/htdocs"
	"github.com/liut/chatbot/pkg/console"
	"github.com/liut/chatbot/pkg/controller"
	"github.com/liut/chatbot/pkg/models/chat"
	"github.com/liut/chatbot/pkg/services/chatapi"
	"github.com/liut/chatbot/pkg/services/presets"
	"github.com/liut/chatbot/pkg/settings"
	"github.com/liut/chatbot/pkg/tui"
	"github.com/liut/chatbot/pkg/web"
	"github.com/liut/chatbot/pkg/web/reply"
)

func main() {
	app := &cli.App{
		Name:    "chatbot",
		Usage:   "chat with an /api/chat endpoint",
		Version: settings.Current.Version,
		Flags:   chatFlags(),
		Action:  runChat,
		Commands: []*cli.Command{
			{
				Name:   "chat",
				Usage:  "open the chat client (default)",
				Flags:  chatFlags(),
				Action: runChat,
			},
			{
				Name:  "serve",
				Usage: "serve the browser client and a development /api/chat",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Value: settings.Current.HTTPListen, Usage: "listen address"},
				},
				Action: runServe,
			},
			{
				Name:  "usage",
				Usage: "show environment configuration",
				Action: func(_ *cli.Context) error {
					return settings.Usage()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func chatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "endpoint", Aliases: []string{"e"}, Value: settings.Current.ChatEndpoint, Usage: "chat endpoint URL"},
		&cli.DurationFlag{Name: "timeout", Value: settings.Current.ChatTimeout, Usage: "request timeout, 0 waits forever"},
		&cli.BoolFlag{Name: "plain", Usage: "line mode instead of full screen"},
	}
}

// setupLogger installs a zap logger into zlog, an empty path in screen mode discards logs
func setupLogger(screen bool) (*zap.Logger, error) {
	var zlogger *zap.Logger
	var err error
	switch {
	case screen && len(settings.Current.LogFile) == 0:
		zlogger = zap.NewNop()
	case screen:
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{settings.Current.LogFile}
		cfg.ErrorOutputPaths = []string{settings.Current.LogFile}
		zlogger, err = cfg.Build()
	case settings.InDevelop():
		zlogger, err = zap.NewDevelopment()
	default:
		zlogger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zlog.Set(zlogger.Sugar())
	return zlogger, nil
}

// loadPreset fails when a preset file is configured but unusable
func loadPreset(name string) (chat.Preset, error) {
	preset, err := presets.Load(name)
	if err != nil {
		return preset, cli.Exit(fmt.Sprintf("load preset %s: %s", name, err), 1)
	}
	return preset, nil
}

func runChat(c *cli.Context) error {
	zlogger, err := setupLogger(true)
	if err != nil {
		return err
	}
	defer func() { _ = zlogger.Sync() }()

	preset, err := loadPreset(settings.Current.PresetFile)
	if err != nil {
		return err
	}
	timeout := c.Duration("timeout")
	endpoint := c.String("endpoint")
	opts := []controller.Option{
		controller.WithGreeting(preset.WelcomeText(controller.Greeting)),
		controller.WithTimeout(timeout),
	}
	client := chatapi.New(endpoint)
	zlog.Get().Infow("chat start", "endpoint", endpoint, "timeout", timeout, "plain", c.Bool("plain"))

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.Bool("plain") {
		return console.Run(ctx, os.Stdin, os.Stdout, client, opts...)
	}
	return tui.Run(ctx, settings.Name+" · "+endpoint, client, opts...)
}

func runServe(c *cli.Context) error {
	zlogger, err := setupLogger(false)
	if err != nil {
		return err
	}
	defer func() { _ = zlogger.Sync() }()
	sugar := zlogger.Sugar()

	preset, err := loadPreset(settings.Current.PresetFile)
	if err != nil {
		return err
	}
	var replier reply.Replier = reply.Rules{}
	if len(settings.Current.OpenAIAPIKey) > 0 {
		model := settings.Current.ChatModel
		if len(preset.Model) > 0 {
			model = preset.Model
		}
		replier = reply.NewOpenAI(reply.OpenAIConfig{
			APIKey:       settings.Current.OpenAIAPIKey,
			BaseURL:      settings.Current.OpenAIBaseURL,
			Model:        model,
			SystemPrompt: preset.SystemPrompt,
			MaxTokens:    preset.MaxTokens,
			Temperature:  preset.Temperature,
			Timeout:      settings.Current.OpenAITimeout,
		})
	}

	srv, err := web.New(web.Config{
		Addr:         c.String("listen"),
		Debug:        settings.InDevelop(),
		DocHandler:   http.FileServer(http.FS(htdocs.FS())),
		Replier:      replier,
		HistoryLimit: settings.Current.HistoryLimit,
		RateLimit:    settings.Current.RateLimit,
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
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := srv.Stop(sctx); err != nil {
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

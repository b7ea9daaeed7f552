package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"weather-mcp/config"
	v1 "weather-mcp/internal/controllers/mcp/v1"
	"weather-mcp/internal/repositories"
	"weather-mcp/internal/services/forecast"
	"weather-mcp/pkg/httpserver"
	"weather-mcp/pkg/observe"
)

func main() {
	stdio := flag.Bool("stdio", false, "serve the protocol over stdin/stdout instead of HTTP")
	flag.Parse()

	_ = godotenv.Load()

	cnf, err := config.NewConfig()
	if err != nil {
		// Configuration failures are fatal before anything binds.
		log.Fatalf("cannot load configuration: %v", err)
	}

	// In stdio mode stdout carries protocol frames, so logs move to stderr.
	logSink := io.Writer(os.Stdout)
	if *stdio {
		logSink = os.Stderr
	}
	writers := []io.Writer{logSink}

	var hook *observe.SentryHook
	if cnf.Sentry.DSN != "" {
		hook = observe.NewSentryHook(cnf.App.Env, cnf.App.Name, 0, !cnf.IsProduction(), cnf.Sentry.DSN)
		writers = append(writers, hook)
	}

	l := observe.NewZapLogger(cnf.App.Name, cnf.Log.Level, writers...)
	if hook != nil {
		hook.SetLogger(l)
	}

	forecastRepo, geocoder, err := repositories.InitWeatherRepositories(cnf, l)
	if err != nil {
		l.Fatal("cannot initialize weather repositories", map[string]any{"err": err})
	}

	service := forecast.NewService(forecastRepo, geocoder, l)

	handlers := v1.NewHandlers(service, l, cnf.App.Name, cnf.App.Version)

	if *stdio {
		runStdio(handlers, l, hook)
		return
	}

	runHTTP(cnf, handlers, l, hook)
}

func runStdio(handlers *v1.Handlers, l *observe.Logger, hook *observe.SentryHook) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	l.Info("serving protocol over stdio")

	err := handlers.NewServer().Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Error(err)
	}

	if hook != nil {
		hook.Flush()
	}
	_ = l.Stop()
}

func runHTTP(cnf *config.Config, handlers *v1.Handlers, l *observe.Logger, hook *observe.SentryHook) {
	ctx, cancel := context.WithCancel(context.Background())

	app := httpserver.InitFiberServer(cnf.App.Name, l)

	v1.NewRouter(
		app,
		handlers,
		l,
	)

	go func() {
		if err := app.Listen(cnf.Server.Addr()); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":    cnf.Server.Port,
		"env":     cnf.App.Env,
		"version": cnf.App.Version,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cnf.Server.ShutdownTimeout)*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		if hook != nil {
			hook.Flush()
		}
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}

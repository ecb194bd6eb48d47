package main

import (
	"context"
	"fmt"
	"os"

	"usercodec/cmd/usercodec/app"
	"usercodec/cmd/usercodec/cli"
	"usercodec/cmd/usercodec/di"
	"usercodec/cmd/usercodec/server"
	"usercodec/pkg/logger"

	"go.uber.org/zap"
)

const usage = `usage: usercodec <command> [flags]

commands:
  decode [-strict] [file ...]  decode user records and print them normalized
  serve                        run the HTTP conversion service
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	// decode writes records to stdout; keep logs off it
	if args[0] == "decode" && cfg.Logger.OutputPath == "stdout" {
		cfg.Logger.OutputPath = "stderr"
	}

	l, err := app.InitLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync(l) //nolint:errcheck

	switch args[0] {
	case "decode":
		return cli.Decode(context.Background(), di.NewUsecase(cfg, l), args[1:], os.Stdin, os.Stdout, os.Stderr, l)
	case "serve":
		ctx, stop := server.WithSignal(context.Background(), l)
		defer stop()

		a, err := app.New(ctx, cfg, l)
		if err != nil {
			l.Error("failed to start application", zap.Error(err))
			return 1
		}
		if err := a.Run(ctx); err != nil {
			l.Error("application exited with error", zap.Error(err))
			return 1
		}
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

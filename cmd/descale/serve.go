package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/descale/internal/api"
	"github.com/samcharles93/descale/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		rps         float64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
		&cli.Float64Flag{
			Name:        "rps",
			Usage:       "accepted requests per second (0 disables limiting)",
			Value:       10,
			Destination: &rps,
		},
	}
	flags = append(flags, commonLogFlags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the descale REST API",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := loadConfig()
			applyFilterConfig(cmd, cfg)
			if cfg.ServerAddress != "" && !cmd.IsSet("addr") {
				addr = cfg.ServerAddress
			}
			log := newLogger()

			server := api.NewServer(log, rps)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(logger.WithContext(ctx, log), e)
		},
	}
}

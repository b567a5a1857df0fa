package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/config"
)

func main() {
	var cfg config.Config

	app := &cli.App{
		Name:  "storefront",
		Usage: "product selection, pricing and cart service",
		Before: func(c *cli.Context) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			level, _ := cfg.Level()
			slog.SetLogLoggerLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address, overrides STOREFRONT_HTTP_ADDR"},
					&cli.BoolFlag{Name: "seed", Usage: "seed the catalog when it is empty", Value: true},
				},
				Action: func(c *cli.Context) error {
					if addr := c.String("addr"); addr != "" {
						cfg.HTTPAddr = addr
					}
					return serve(c.Context, cfg, c.Bool("seed"))
				},
			},
			{
				Name:  "migrate",
				Usage: "create the database schema",
				Action: func(c *cli.Context) error {
					return migrate(c.Context, cfg)
				},
			},
			{
				Name:  "seed",
				Usage: "load the sample catalog into an empty database",
				Action: func(c *cli.Context) error {
					return seed(c.Context, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Storefront failed", "err", err)
		os.Exit(1)
	}
}

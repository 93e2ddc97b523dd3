// Command userservice is the authentication and user management API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/userservice/app"
	"github.com/kbukum/userservice/bootstrap"
	"github.com/kbukum/userservice/config"
	"github.com/kbukum/userservice/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg app.Config
	if err := config.LoadConfig(app.ServiceName, &cfg); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}

	a, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	a.Logger.Info("Auth configured", map[string]interface{}{"auth": cfg.Auth.Describe()})

	svc, err := app.Build(&cfg, a.Logger, a.Components.HealthAll)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	for _, c := range svc.Components() {
		if err := a.RegisterComponent(c); err != nil {
			return err
		}
	}
	a.OnReady(func(context.Context) error {
		a.Logger.Info("Listening", map[string]interface{}{"addr": svc.Server.Addr()})
		return nil
	})

	return a.Run(context.Background())
}

// Package bootstrap runs a service through its lifecycle: start components,
// wire the business layer, wait for SIGINT/SIGTERM, stop everything in
// reverse order within a graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(server.NewComponent(srv))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    // a.Cfg is *Config, fully typed
//	    return nil
//	})
//	err = app.Run(ctx)
package bootstrap

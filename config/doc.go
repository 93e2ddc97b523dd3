// Package config loads service configuration with Viper.
//
// Values come from cmd/<service>/config.yml, overridden by environment
// variables and an optional .env file loaded with godotenv.
//
//	var cfg app.Config
//	if err := config.LoadConfig("userservice", &cfg); err != nil { ... }
package config

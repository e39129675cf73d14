// Package config provides configuration loading for recq.
//
// It uses Viper to read YAML, JSON or TOML files and environment variables,
// and godotenv to load an optional .env file first.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("recq", &cfg, config.WithConfigFile("recq.yml"))
//
// Environment variables override file values using the service prefix and
// underscore-separated paths (e.g., RECQ_SERVER_ADDR for server.addr).
package config

// Package config loads streamkit configuration with viper.
//
// LoadConfig reads a YAML file (explicit, or found as streamkit.yml or
// config.yml in the working directory, ./config or ./cmd/<service>), then
// loads a .env file with godotenv, then applies environment variables
// prefixed with the service name:
//
//	var cfg AppConfig
//	err := config.LoadConfig("streamkit", &cfg, config.WithConfigFile(path))
//
// STREAMKIT_LOGGING_LEVEL=debug overrides logging.level, and
// STREAMKIT_SERVER_RUN_TIMEOUT=5s overrides server.run_timeout.
package config

// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct parsing and
// github.com/joho/godotenv for .env files. Every configuration type is parsed
// once per process and cached, so packages can call Load for the same struct
// without re-reading the environment.
//
//	type Config struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// LoadEnv reads explicit .env files; otherwise the first Load call tries the
// .env file in the working directory and ignores it if missing. ResetCache is
// meant for tests.
package config

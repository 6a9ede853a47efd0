// Package utils holds the configuration and logging plumbing shared by the CLI.
//
// ConfigurationLoader layers embedded defaults, an optional YAML file, and
// environment variables through Viper. LoggerFactory builds the zap loggers
// used for diagnostics and for human-readable console narration.
package utils

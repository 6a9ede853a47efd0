// Package cli builds the prune-merged command line: the Cobra root command,
// its flags, configuration loading through Viper, and the zap loggers.
// CommandBuilder wires git execution, repository inspection, the run lock,
// the confirmation prompt, and the reporter into a prune.Service.
package cli

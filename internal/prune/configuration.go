package prune

import "strings"

const (
	configurationKeySeparatorConstant         = "."
	remoteConfigurationKeyConstant            = "remote"
	mainBranchConfigurationKeyConstant        = "main_branch"
	keepDevelopConfigurationKeyConstant       = "keep_develop"
	dryRunConfigurationKeyConstant            = "dry_run"
	protectedBranchesConfigurationKeyConstant = "protected_branches"
	outputConfigurationKeyConstant            = "output"
)

const (
	// OutputFormatTable renders candidates as a styled table.
	OutputFormatTable = "table"
	// OutputFormatYAML renders candidates and summaries as YAML documents.
	OutputFormatYAML = "yaml"
)

// CommandConfiguration captures persistent settings for the prune command.
type CommandConfiguration struct {
	RemoteName        string   `mapstructure:"remote"`
	MainBranch        string   `mapstructure:"main_branch"`
	KeepDevelop       bool     `mapstructure:"keep_develop"`
	DryRun            bool     `mapstructure:"dry_run"`
	ProtectedBranches []string `mapstructure:"protected_branches"`
	OutputFormat      string   `mapstructure:"output"`
}

// DefaultCommandConfiguration returns baseline configuration values for the prune command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:        defaultRemoteNameConstant,
		MainBranch:        defaultMainBranchConstant,
		KeepDevelop:       true,
		DryRun:            false,
		ProtectedBranches: []string{},
		OutputFormat:      OutputFormatTable,
	}
}

// DefaultConfigurationValues exposes the defaults as Viper keys nested under configurationKey.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	keyPrefix := strings.TrimSpace(configurationKey)
	if len(keyPrefix) > 0 {
		keyPrefix += configurationKeySeparatorConstant
	}
	return map[string]any{
		keyPrefix + remoteConfigurationKeyConstant:            defaults.RemoteName,
		keyPrefix + mainBranchConfigurationKeyConstant:        defaults.MainBranch,
		keyPrefix + keepDevelopConfigurationKeyConstant:       defaults.KeepDevelop,
		keyPrefix + dryRunConfigurationKeyConstant:            defaults.DryRun,
		keyPrefix + protectedBranchesConfigurationKeyConstant: defaults.ProtectedBranches,
		keyPrefix + outputConfigurationKeyConstant:            defaults.OutputFormat,
	}
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	defaults := DefaultCommandConfiguration()

	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaults.RemoteName
	}

	sanitized.MainBranch = strings.TrimSpace(configuration.MainBranch)
	if len(sanitized.MainBranch) == 0 {
		sanitized.MainBranch = defaults.MainBranch
	}

	sanitized.OutputFormat = strings.ToLower(strings.TrimSpace(configuration.OutputFormat))
	if len(sanitized.OutputFormat) == 0 {
		sanitized.OutputFormat = defaults.OutputFormat
	}

	sanitized.ProtectedBranches = sanitizeBranchNames(configuration.ProtectedBranches)
	return sanitized
}

// Options converts the configuration into run options.
func (configuration CommandConfiguration) Options() Options {
	return Options{
		RemoteName:        configuration.RemoteName,
		MainBranch:        configuration.MainBranch,
		DryRun:            configuration.DryRun,
		KeepDevelop:       configuration.KeepDevelop,
		ProtectedBranches: append([]string(nil), configuration.ProtectedBranches...),
	}
}

func sanitizeBranchNames(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for index := range raw {
		trimmed := strings.TrimSpace(raw[index])
		if len(trimmed) == 0 {
			continue
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}

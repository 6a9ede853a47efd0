package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "default_false", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "bare_flag", arguments: []string{"--dry-run"}, expectedValue: true, expectedChanged: true},
		{name: "explicit_yes", arguments: []string{"--dry-run", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "explicit_true_uppercase", arguments: []string{"--dry-run", "TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "explicit_no", arguments: []string{"--dry-run", "no"}, expectedValue: false, expectedChanged: true},
		{name: "assignment_form", arguments: []string{"--dry-run=off"}, expectedValue: false, expectedChanged: true},
		{name: "followed_by_flag", arguments: []string{"--dry-run", "--other"}, expectedValue: true, expectedChanged: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command := &cobra.Command{}
			var toggleValue bool
			var otherValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "dry-run", "", false, "Preview only")
			command.Flags().BoolVar(&otherValue, "other", false, "")

			require.NoError(testInstance, command.ParseFlags(NormalizeToggleArguments(testCase.arguments)))
			require.Equal(testInstance, testCase.expectedValue, toggleValue)

			flag := command.Flags().Lookup("dry-run")
			require.NotNil(testInstance, flag)
			require.Equal(testInstance, testCase.expectedChanged, flag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsInvalidValues(testInstance *testing.T) {
	command := &cobra.Command{}
	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "dry-run", "", false, "Preview only")

	require.Error(testInstance, command.ParseFlags(NormalizeToggleArguments([]string{"--dry-run", "maybe"})))
	require.False(testInstance, toggleValue)
	require.False(testInstance, command.Flags().Lookup("dry-run").Changed)
}

func TestNormalizeToggleArgumentsHandlesShorthand(testInstance *testing.T) {
	command := &cobra.Command{}
	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "force", "f", true, "Skip confirmation")

	require.NoError(testInstance, command.ParseFlags(NormalizeToggleArguments([]string{"-f", "no"})))
	require.False(testInstance, toggleValue)
	require.True(testInstance, command.Flags().Lookup("force").Changed)
}

func TestNormalizeToggleArgumentsStopsAtTerminator(testInstance *testing.T) {
	var toggleValue bool
	AddToggleFlag((&cobra.Command{}).Flags(), &toggleValue, "dry-run", "", false, "")
	require.Equal(testInstance, []string{"--", "--dry-run", "yes"}, NormalizeToggleArguments([]string{"--", "--dry-run", "yes"}))
}

func TestToggleUsageShowsDefault(testInstance *testing.T) {
	require.Equal(testInstance, "`<YES|no>` Keep develop", formatToggleUsage("Keep develop", true))
	require.Equal(testInstance, "`<yes|NO>`", formatToggleUsage(" ", false))
}

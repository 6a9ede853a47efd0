package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/prune-merged/internal/utils/path"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	homeDirectory := filepath.Join(string(filepath.Separator), "home", "tester")

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare_tilde", input: "~", expected: homeDirectory},
		{name: "tilde_directory", input: "~/.prune-merged", expected: filepath.Join(homeDirectory, ".prune-merged")},
		{name: "nested_path", input: "~/.prune-merged/config.yaml", expected: filepath.Join(homeDirectory, ".prune-merged", "config.yaml")},
		{name: "other_user_unchanged", input: "~someone/config.yaml", expected: "~someone/config.yaml"},
		{name: "relative_unchanged", input: "config.yaml", expected: "config.yaml"},
		{name: "empty_unchanged", input: "", expected: ""},
	}

	providerCalls := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		providerCalls++
		return homeDirectory, nil
	})

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, expander.Expand(testCase.input))
		})
	}
	require.Equal(testInstance, 1, providerCalls)
}

func TestHomeExpanderLeavesPathWhenHomeUnavailable(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/.prune-merged", expander.Expand("~/.prune-merged"))

	var nilExpander *pathutils.HomeExpander
	require.Equal(testInstance, "~/x", nilExpander.Expand("~/x"))
}

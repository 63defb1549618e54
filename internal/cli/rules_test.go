package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesCommand_RuleFormatFlag(t *testing.T) {
	cmd := newRulesCommand()
	flag := cmd.Flags().Lookup("rule-format")
	require.NotNil(t, flag)
	assert.Equal(t, "combined", flag.DefValue)
}

func TestRulesCommand_JSON(t *testing.T) {
	cmd := newRulesCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--format", "json"})

	require.NoError(t, cmd.Execute())

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
	require.NotEmpty(t, infos)

	byID := make(map[string]ruleInfo, len(infos))
	for _, info := range infos {
		byID[info.ID] = info
	}

	trailing, ok := byID["Layout/TrailingWhitespace"]
	require.True(t, ok, "Layout/TrailingWhitespace should be listed")
	assert.Equal(t, "trailing-whitespace", trailing.Name)
	assert.Equal(t, "Layout", trailing.Department)
	assert.True(t, trailing.Fixable)
	assert.Contains(t, byID, "Lint/LiteralInInterpolation")
}

func TestRulesCommand_Department(t *testing.T) {
	cmd := newRulesCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--format", "json", "--department", "Lint"})

	require.NoError(t, cmd.Execute())

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
	require.NotEmpty(t, infos)
	for _, info := range infos {
		assert.Equal(t, "Lint", info.Department, "rule %s", info.ID)
	}
}

func TestRulesCommand_UnknownDepartment(t *testing.T) {
	cmd := newRulesCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--department", "Style"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidUsage, ExitCode(err))
}

func TestRulesCommand_Text(t *testing.T) {
	cmd := newRulesCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--rule-format", "name"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "end-alignment")
	assert.NotContains(t, out.String(), "Layout/EndAlignment")
}

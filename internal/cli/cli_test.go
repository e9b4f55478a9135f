// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velora-app/velora-tui/internal/config"
)

func configForTest() *config.Config {
	return config.Default()
}

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, args := parseArgs(nil)
	assert.Equal(t, CmdTUI, cmd)
	assert.Empty(t, args.StartMode)
}

func TestParseDeepLinks(t *testing.T) {
	cmd, args := parseArgs([]string{"register"})
	assert.Equal(t, CmdTUI, cmd)
	assert.Equal(t, "register", args.StartMode)

	cmd, args = parseArgs([]string{"forgot"})
	assert.Equal(t, CmdTUI, cmd)
	assert.Equal(t, "forgot", args.StartMode)
}

func TestParseCommands(t *testing.T) {
	cases := map[string]Command{
		"login":   CmdLogin,
		"logout":  CmdLogout,
		"status":  CmdStatus,
		"s":       CmdStatus,
		"config":  CmdConfig,
		"cache":   CmdCache,
		"serve":   CmdServe,
		"version": CmdVersion,
		"help":    CmdHelp,
	}
	for word, want := range cases {
		cmd, _ := parseArgs([]string{word})
		assert.Equal(t, want, cmd, "command word %q", word)
	}
}

func TestParseSubcommandAndPositionals(t *testing.T) {
	cmd, args := parseArgs([]string{"config", "set", "ui.locale", "vi"})
	assert.Equal(t, CmdConfig, cmd)
	assert.Equal(t, "set", args.Subcommand)
	assert.Equal(t, []string{"ui.locale", "vi"}, args.Positional)
}

func TestParseFlags(t *testing.T) {
	cmd, args := parseArgs([]string{"status", "--json", "--server", "http://example.com/api/v1", "--no-cache"})
	assert.Equal(t, CmdStatus, cmd)
	assert.True(t, args.JSON)
	assert.True(t, args.NoCache)
	assert.Equal(t, "http://example.com/api/v1", args.Server)
}

func TestParseEqualsFlagForm(t *testing.T) {
	_, args := parseArgs([]string{"--locale=vi", "--server=http://localhost:9000/api/v1"})
	assert.Equal(t, "vi", args.Locale)
	assert.Equal(t, "http://localhost:9000/api/v1", args.Server)
}

func TestUnknownCommandFallsBackToHelp(t *testing.T) {
	cmd, _ := parseArgs([]string{"frobnicate"})
	assert.Equal(t, CmdHelp, cmd)
}

func TestConfigSetValidatesStartMode(t *testing.T) {
	cfg := configForTest()
	assert.Error(t, setConfigValue(cfg, "ui.start_mode", "verify"))
	assert.NoError(t, setConfigValue(cfg, "ui.start_mode", "forgot"))
	assert.Equal(t, "forgot", cfg.UI.StartMode)
}

func TestConfigGetUnknownKey(t *testing.T) {
	cfg := configForTest()
	_, err := configValue(cfg, "nope.nothing")
	assert.Error(t, err)
}

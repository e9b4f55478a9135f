// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdStatus
	CmdConfig
	CmdCache
	CmdServe
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// StartMode deep-links the auth screen ("register", "forgot").
	StartMode string
	// Server overrides api.base_url for this invocation.
	Server string
	// Locale overrides ui.locale for this invocation.
	Locale string
	// NoCache disables the local catalog cache.
	NoCache bool
	// JSON switches command output to JSON where supported.
	JSON bool

	// Subcommand and positional args after the command word.
	Subcommand string
	Positional []string
}

const usageText = `velora - terminal storefront for beauty and wellness bookings

Usage:
  velora                     Start the TUI (default)
  velora register            Start the TUI on the registration screen
  velora forgot              Start the TUI on the password reset screen
  velora login               Sign in from the terminal without the TUI
  velora logout              Discard the saved session
  velora status              Show session and backend status
  velora config show         Print the active configuration
  velora config get <key>    Print one configuration value
  velora config set <k> <v>  Change a configuration value
  velora cache stats         Show local catalog cache statistics
  velora cache clear         Drop all cached catalog data
  velora serve               Run the bundled development backend
  velora version             Show version information

Flags:
  --server <url>   Override the backend base URL
  --locale <tag>   Override the message locale (en, vi)
  --no-cache       Disable the local catalog cache
  --json           JSON output (status, version)
`

// Parse reads os.Args and returns the command plus its arguments.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

func parseArgs(raw []string) (Command, Args) {
	var args Args
	var positional []string

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		switch {
		case arg == "--json":
			args.JSON = true
		case arg == "--no-cache":
			args.NoCache = true
		case arg == "--server":
			if i+1 < len(raw) {
				i++
				args.Server = raw[i]
			}
		case strings.HasPrefix(arg, "--server="):
			args.Server = strings.TrimPrefix(arg, "--server=")
		case arg == "--locale":
			if i+1 < len(raw) {
				i++
				args.Locale = raw[i]
			}
		case strings.HasPrefix(arg, "--locale="):
			args.Locale = strings.TrimPrefix(arg, "--locale=")
		case strings.HasPrefix(arg, "-"):
			// Unknown flags are ignored rather than fatal.
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return CmdTUI, args
	}

	cmd := positional[0]
	if len(positional) > 1 {
		args.Subcommand = positional[1]
		args.Positional = positional[2:]
	}

	switch cmd {
	case "register", "forgot":
		args.StartMode = cmd
		return CmdTUI, args
	case "login":
		return CmdLogin, args
	case "logout":
		return CmdLogout, args
	case "status", "s":
		return CmdStatus, args
	case "config":
		return CmdConfig, args
	case "cache":
		return CmdCache, args
	case "serve":
		return CmdServe, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n\n", cmd)
		return CmdHelp, args
	}
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(usageText)
}

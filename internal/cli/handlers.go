// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/authflow"
	"github.com/velora-app/velora-tui/internal/config"
	"github.com/velora-app/velora-tui/internal/server"
	"github.com/velora-app/velora-tui/internal/session"
	"github.com/velora-app/velora-tui/internal/storage"
)

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

// HandleLogin signs in from the terminal and saves the session, so scripts
// and the TUI share one credential store.
func HandleLogin(args Args) error {
	cfg := config.Global()
	baseURL := cfg.API.BaseURL
	if args.Server != "" {
		baseURL = args.Server
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Phone number: ")
	phone, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read phone number: %w", err)
	}
	phone = strings.TrimSpace(phone)
	if err := authflow.ValidatePhone(phone); err != nil {
		return err
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	client := api.New(baseURL).WithTimeout(cfg.Timeout())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	token, err := client.Login(ctx, phone, string(passwordBytes))
	if err != nil {
		return err
	}
	sess, err := session.FromToken(token)
	if err != nil {
		return err
	}

	store := session.NewStore(cfg.Storage.DataDir)
	if err := store.Set(sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("Signed in as %s.\n", sess.NumberPhone)
	return nil
}

// HandleLogout discards the saved session.
func HandleLogout(args Args) error {
	cfg := config.Global()
	store := session.NewStore(cfg.Storage.DataDir)
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}

// =============================================================================
// STATUS
// =============================================================================

type statusReport struct {
	SignedIn bool   `json:"signed_in"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
	Server   string `json:"server"`
	Cache    string `json:"cache"`
}

// HandleStatus prints session and backend information.
func HandleStatus(args Args) error {
	cfg := config.Global()

	report := statusReport{Server: cfg.API.BaseURL, Cache: "disabled"}
	if cfg.Storage.CacheEnabled && !args.NoCache {
		report.Cache = "enabled"
	}

	store := session.NewStore(cfg.Storage.DataDir)
	if sess, err := store.Load(); err == nil {
		report.SignedIn = true
		report.Phone = sess.NumberPhone
		report.Role = roleName(sess.RoleID)
	}

	if args.JSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if report.SignedIn {
		fmt.Printf("Signed in as %s (%s).\n", report.Phone, report.Role)
	} else {
		fmt.Println("Not signed in.")
	}
	fmt.Printf("Server: %s\n", report.Server)
	fmt.Printf("Cache:  %s\n", report.Cache)
	return nil
}

func roleName(roleID int) string {
	switch roleID {
	case session.RoleAdmin:
		return "admin"
	case session.RoleStaff:
		return "staff"
	case session.RoleCustomer:
		return "customer"
	default:
		return "unknown"
	}
}

// =============================================================================
// CONFIG
// =============================================================================

// HandleConfig implements config show/get/set.
func HandleConfig(args Args) error {
	cfg := config.Global()

	switch args.Subcommand {
	case "", "show":
		fmt.Printf("api.base_url      = %s\n", cfg.API.BaseURL)
		fmt.Printf("api.timeout_secs  = %d\n", cfg.API.TimeoutSecs)
		fmt.Printf("api.device_name   = %s\n", cfg.API.DeviceName)
		fmt.Printf("ui.locale         = %s\n", cfg.UI.Locale)
		fmt.Printf("ui.theme          = %s\n", cfg.UI.Theme)
		fmt.Printf("ui.start_mode     = %s\n", cfg.UI.StartMode)
		fmt.Printf("storage.data_dir  = %s\n", cfg.Storage.DataDir)
		fmt.Printf("storage.cache_enabled = %t\n", cfg.Storage.CacheEnabled)
		fmt.Printf("dev.listen_addr   = %s\n", cfg.Dev.ListenAddr)
		return nil

	case "get":
		if len(args.Positional) < 1 {
			return fmt.Errorf("usage: velora config get <key>")
		}
		value, err := configValue(cfg, args.Positional[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil

	case "set":
		if len(args.Positional) < 2 {
			return fmt.Errorf("usage: velora config set <key> <value>")
		}
		if err := setConfigValue(cfg, args.Positional[0], args.Positional[1]); err != nil {
			return err
		}
		if err := cfg.Save(config.Path()); err != nil {
			return err
		}
		config.SetGlobal(cfg)
		fmt.Printf("Set %s.\n", args.Positional[0])
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q", args.Subcommand)
	}
}

func configValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "api.base_url":
		return cfg.API.BaseURL, nil
	case "api.timeout_secs":
		return fmt.Sprintf("%d", cfg.API.TimeoutSecs), nil
	case "api.device_name":
		return cfg.API.DeviceName, nil
	case "ui.locale":
		return cfg.UI.Locale, nil
	case "ui.theme":
		return cfg.UI.Theme, nil
	case "ui.start_mode":
		return cfg.UI.StartMode, nil
	case "storage.data_dir":
		return cfg.Storage.DataDir, nil
	case "storage.cache_enabled":
		return fmt.Sprintf("%t", cfg.Storage.CacheEnabled), nil
	case "dev.listen_addr":
		return cfg.Dev.ListenAddr, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.device_name":
		cfg.API.DeviceName = value
	case "ui.locale":
		cfg.UI.Locale = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.start_mode":
		if value != "" {
			if _, err := authflow.ParseMode(value); err != nil {
				return err
			}
		}
		cfg.UI.StartMode = value
	case "storage.cache_enabled":
		cfg.Storage.CacheEnabled = value == "true"
	case "dev.listen_addr":
		cfg.Dev.ListenAddr = value
	default:
		return fmt.Errorf("unknown or read-only config key %q", key)
	}
	return cfg.Validate()
}

// =============================================================================
// CACHE
// =============================================================================

// HandleCache implements cache stats/clear.
func HandleCache(args Args) error {
	cfg := config.Global()
	cache, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	defer cache.Close()

	switch args.Subcommand {
	case "", "stats":
		stats := cache.Stats()
		fmt.Printf("Categories:    %d\n", stats.Categories)
		fmt.Printf("Services:      %d\n", stats.Services)
		fmt.Printf("Notifications: %d\n", stats.Notifications)
		fmt.Printf("Database size: %d bytes\n", stats.DatabaseSize)
		return nil
	case "clear":
		if err := cache.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	default:
		return fmt.Errorf("unknown cache subcommand %q", args.Subcommand)
	}
}

// =============================================================================
// SERVE
// =============================================================================

// HandleServe runs the bundled development backend until interrupted.
func HandleServe(args Args) error {
	cfg := config.Global()

	srv := server.New(server.Options{
		Addr:     cfg.Dev.ListenAddr,
		OTPDebug: cfg.Dev.OTPDebug,
	})

	fmt.Printf("Development backend listening on %s\n", cfg.Dev.ListenAddr)
	fmt.Println("Seeded accounts:")
	fmt.Println("  staff: 0900000001 / staffpass")
	fmt.Println("  admin: 0900000000 / adminpass")
	if cfg.Dev.OTPDebug {
		fmt.Println("OTP codes are logged to stderr (dev.otp_debug = true).")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}

// =============================================================================
// VERSION
// =============================================================================

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.JSON {
		out, _ := json.Marshal(map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
		})
		fmt.Println(string(out))
		return
	}
	fmt.Printf("velora %s (%s, built %s)\n", Version, GitCommit, BuildDate)
}

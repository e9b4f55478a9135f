// velora TUI - a terminal storefront for beauty and wellness bookings.
//
// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/velora-app/velora-tui/internal/api"
	"github.com/velora-app/velora-tui/internal/authflow"
	"github.com/velora-app/velora-tui/internal/cli"
	"github.com/velora-app/velora-tui/internal/config"
	"github.com/velora-app/velora-tui/internal/i18n"
	"github.com/velora-app/velora-tui/internal/session"
	"github.com/velora-app/velora-tui/internal/storage"
	"github.com/velora-app/velora-tui/internal/ui/auth"
	"github.com/velora-app/velora-tui/internal/ui/staff"
	"github.com/velora-app/velora-tui/internal/ui/styles"
	"github.com/velora-app/velora-tui/internal/ui/tabs"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		exitOnError(cli.HandleLogin(args))
	case cli.CmdLogout:
		exitOnError(cli.HandleLogout(args))
	case cli.CmdStatus:
		exitOnError(cli.HandleStatus(args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args))
	case cli.CmdCache:
		exitOnError(cli.HandleCache(args))
	case cli.CmdServe:
		exitOnError(cli.HandleServe(args))
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

func exitOnError(err error) {
	if err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the terminal interface.
func runTUI(args cli.Args) {
	cfg := config.Global()
	if args.Server != "" {
		cfg.API.BaseURL = args.Server
	}
	if args.Locale != "" {
		cfg.UI.Locale = args.Locale
	}
	i18n.SetLocale(cfg.UI.Locale)

	// Stray log output corrupts the alternate screen, so it goes to a file.
	if err := os.MkdirAll(cfg.Storage.DataDir, 0700); err == nil {
		logPath := filepath.Join(cfg.Storage.DataDir, "velora.log")
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	// Live-reload config edits while the TUI runs.
	if stop, err := config.Watch(config.Path()); err == nil {
		defer stop()
	}

	theme := styles.NewTheme()
	client := api.New(cfg.API.BaseURL).WithTimeout(cfg.Timeout())
	store := session.NewStore(cfg.Storage.DataDir)

	var cache *storage.Cache
	if cfg.Storage.CacheEnabled && !args.NoCache {
		var err error
		cache, err = storage.Open(cfg.Storage.DataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: catalog cache disabled: %v\n", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	startMode := authflow.ModeLogin
	if raw := firstNonEmpty(args.StartMode, cfg.UI.StartMode); raw != "" {
		if mode, err := authflow.ParseMode(raw); err == nil {
			startMode = mode
		}
	}

	app := newApp(client, cache, store, theme, startMode, cfg.API.DeviceName)

	// A saved session skips the auth screen entirely.
	if sess, err := store.Load(); err == nil {
		client.SetToken(sess.Token)
		app.enterSignedIn(*sess)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running velora: %v\n", err)
		os.Exit(1)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// appState identifies which screen owns the terminal.
type appState int

const (
	stateAuth appState = iota
	stateCustomer
	stateStaff
	stateAdmin
)

// appModel routes between the auth screen and the role-specific areas.
type appModel struct {
	state appState

	client     *api.Client
	cache      *storage.Cache
	store      *session.Store
	theme      *styles.Theme
	startMode  authflow.Mode
	deviceName string

	authModel     *auth.Model
	customerModel *tabs.Model
	staffModel    *staff.Model
	adminPhone    string

	width  int
	height int
}

func newApp(client *api.Client, cache *storage.Cache, store *session.Store, theme *styles.Theme, startMode authflow.Mode, deviceName string) *appModel {
	return &appModel{
		state:      stateAuth,
		client:     client,
		cache:      cache,
		store:      store,
		theme:      theme,
		startMode:  startMode,
		deviceName: deviceName,
		authModel:  auth.New(client, store, theme, startMode, deviceName),
	}
}

// enterSignedIn routes a session to its role's area.
func (a *appModel) enterSignedIn(sess session.Session) {
	switch {
	case sess.IsStaff():
		a.staffModel = staff.New(a.client, a.theme, sess)
		a.state = stateStaff
	case sess.IsAdmin():
		a.adminPhone = sess.NumberPhone
		a.state = stateAdmin
	default:
		a.customerModel = tabs.New(a.client, a.cache, a.theme, sess)
		a.state = stateCustomer
	}
}

// signOut clears everything the session touched and returns to the auth
// screen.
func (a *appModel) signOut() tea.Cmd {
	a.store.Clear()
	a.client.SetToken("")
	if a.cache != nil {
		a.cache.Clear(context.Background())
	}
	a.customerModel = nil
	a.staffModel = nil
	a.authModel = auth.New(a.client, a.store, a.theme, authflow.ModeLogin, a.deviceName)
	a.state = stateAuth
	return tea.Batch(a.authModel.Init(), a.resize())
}

// resize replays the last terminal size to the freshly mounted screen.
func (a *appModel) resize() tea.Cmd {
	if a.width == 0 {
		return nil
	}
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Init implements tea.Model.
func (a *appModel) Init() tea.Cmd {
	switch a.state {
	case stateCustomer:
		return a.customerModel.Init()
	case stateStaff:
		return a.staffModel.Init()
	case stateAdmin:
		return nil
	default:
		return a.authModel.Init()
	}
}

// Update implements tea.Model.
func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height

	case auth.DoneMsg:
		a.enterSignedIn(msg.Session)
		switch a.state {
		case stateCustomer:
			return a, tea.Batch(a.customerModel.Init(), a.resize())
		case stateStaff:
			return a, tea.Batch(a.staffModel.Init(), a.resize())
		default:
			return a, a.resize()
		}

	case tabs.LogoutMsg:
		return a, a.signOut()

	case staff.LogoutMsg:
		return a, a.signOut()
	}

	switch a.state {
	case stateCustomer:
		model, cmd := a.customerModel.Update(msg)
		a.customerModel = model.(*tabs.Model)
		return a, cmd
	case stateStaff:
		model, cmd := a.staffModel.Update(msg)
		a.staffModel = model.(*staff.Model)
		return a, cmd
	case stateAdmin:
		return a.updateAdmin(msg)
	default:
		model, cmd := a.authModel.Update(msg)
		a.authModel = model.(*auth.Model)
		return a, cmd
	}
}

// updateAdmin handles the minimal admin notice screen.
func (a *appModel) updateAdmin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q", "esc":
			return a, tea.Quit
		case "ctrl+l":
			return a, a.signOut()
		}
	}
	return a, nil
}

// View implements tea.Model.
func (a *appModel) View() string {
	switch a.state {
	case stateCustomer:
		return a.customerModel.View()
	case stateStaff:
		return a.staffModel.View()
	case stateAdmin:
		return a.viewAdmin()
	default:
		return a.authModel.View()
	}
}

func (a *appModel) viewAdmin() string {
	body := a.theme.HeaderBrand.Render("Velora") + "\n\n" +
		i18n.T("Signed in as %s.", a.adminPhone) + "\n" +
		a.theme.Muted.Render(i18n.T("The admin console is not available in the terminal app. Use the web dashboard.")) + "\n\n" +
		a.theme.Hint.Render(i18n.T("Press Ctrl+L to sign out or q to quit."))
	return a.theme.Container.Render(body)
}

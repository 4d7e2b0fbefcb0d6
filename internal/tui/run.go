package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plugdex/plugdex/internal/domain/config"
	"github.com/plugdex/plugdex/internal/domain/install"
	"github.com/plugdex/plugdex/internal/domain/inventory"
	"github.com/plugdex/plugdex/internal/domain/registry"
	"github.com/plugdex/plugdex/internal/domain/search"
	"github.com/plugdex/plugdex/internal/ports"
)

// eventNotifier forwards engine notifications into the Bubble Tea loop.
type eventNotifier struct {
	events chan tea.Msg
}

func (n *eventNotifier) Notify(notification ports.Notification) {
	n.events <- notificationMsg(notification)
}

func (n *eventNotifier) InventoryChanged() {
	n.events <- inventoryChangedMsg{}
}

// Run wires the engine together and starts the interactive browser.
func Run(cfg config.Config, logger ports.Logger) error {
	targetDir, err := cfg.ResolveTargetDir()
	if err != nil {
		return fmt.Errorf("resolving plugin directory: %w", err)
	}

	// Session updates are delivered with the session lock held, so the
	// channel must be buffered enough to never block the emitter.
	events := make(chan tea.Msg, 64)
	notifier := &eventNotifier{events: events}

	client := registry.NewClient(registry.ClientConfig{
		BaseURL:   cfg.Registry.BaseURL,
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.Registry.UserAgent,
	})

	tracker := inventory.NewTracker(targetDir)

	installer := install.NewInstaller(install.InstallerConfig{
		TargetDir: targetDir,
		UserAgent: cfg.Registry.UserAgent,
		Workers:   cfg.Install.Workers,
	}, notifier, logger)
	defer installer.Close()

	resolver := install.NewResolver(client, tracker, installer, notifier, logger)

	session, err := search.NewSession(search.Config{
		PageSize: cfg.Search.PageSize,
		Debounce: cfg.Debounce(),
	}, client, cfg.Loaders, func(update search.Update) {
		events <- sessionUpdateMsg(update)
	}, logger)
	if err != nil {
		return fmt.Errorf("starting search session: %w", err)
	}
	defer session.Close()

	model := NewBrowseModel(Deps{
		Catalog:   client,
		Session:   session,
		Installer: installer,
		Resolver:  resolver,
		Inventory: tracker,
		Logger:    logger,
		Events:    events,
		Loaders:   cfg.Loaders,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

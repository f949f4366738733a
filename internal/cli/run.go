package cli

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dndsidebar/internal/config"
	"dndsidebar/internal/dnd"
	"dndsidebar/internal/eventbus"
	"dndsidebar/internal/groups"
	"dndsidebar/internal/ui"
)

// uiEvents are forwarded from the bus into the running program
var uiEvents = []eventbus.EventType{
	eventbus.EventGroupAdded,
	eventbus.EventGroupRemoved,
	eventbus.EventGroupRenamed,
	eventbus.EventGroupMoved,
	eventbus.EventGroupReordered,
	eventbus.EventGroupExpanded,
	eventbus.EventConnectionMoved,
	eventbus.EventConnectionsReordered,
}

func newRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the interactive sidebar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSidebar(cmd.Context(), app)
		},
	}
}

func runSidebar(ctx context.Context, app *App) error {
	// The alt screen owns the terminal, so logs go to a file
	w, err := openLogFile(app.LogFile)
	if err != nil {
		return err
	}
	defer w.Close()
	logger := newLogger(w, app.level())
	loggerFromContext(ctx).Debug("logging to file", "path", app.LogFile)

	bus := eventbus.New(logger)
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(app.ConfigPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}
	logger.Info("config loaded", "path", configSvc.Path(), "connections", len(cfg.Connections), "groups", len(cfg.Groups))

	manager := groups.NewGroupManager(bus, cfg.GroupState())
	fresh := len(cfg.Connections) == 0
	settings := cfg.DnD

	// Handlers run on their own goroutines, so each save writes the
	// manager's current state rather than the event's
	var mu sync.Mutex
	save := func() {
		mu.Lock()
		defer mu.Unlock()
		cfg.SetGroupState(manager.State())
		if err := configSvc.Save(cfg); err != nil {
			logger.Error("failed to save config", "err", err)
		}
	}
	bus.Subscribe(eventbus.EventConfigChanged, func(eventbus.DomainEvent) { save() })

	if fresh {
		if err := seedDemo(manager); err != nil {
			return err
		}
		logger.Info("seeded demo connections")
	}

	model := ui.NewModel(manager, settings, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	for _, t := range uiEvents {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}

	logger.Info("starting sidebar")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run sidebar: %w", err)
	}
	// Queued events are dropped when the bus closes
	save()
	logger.Info("sidebar exited")
	return nil
}

// demoLayout is the connection list a fresh config starts with
var demoLayout = []struct {
	group       string
	connections []string
}{
	{"Production", []string{"web-1", "web-2", "db-primary"}},
	{"Staging", []string{"staging-web", "staging-db"}},
	{"", []string{"bastion", "build-box", "laptop"}},
}

func seedDemo(manager groups.GroupManager) error {
	for _, entry := range demoLayout {
		target := dnd.Ungrouped
		if entry.group != "" {
			id, err := manager.CreateGroup(entry.group, "")
			if err != nil {
				return fmt.Errorf("seed group %s: %w", entry.group, err)
			}
			target = dnd.Group(id)
		}
		for _, nick := range entry.connections {
			manager.AddConnection(nick)
			if err := manager.MoveConnection(nick, target); err != nil {
				return fmt.Errorf("seed connection %s: %w", nick, err)
			}
		}
	}
	return nil
}

// loadManager builds a manager over the config file without a bus, for the
// headless commands
func loadManager(ctx context.Context, app *App) (config.ConfigService, *config.Config, groups.GroupManager, error) {
	logger := loggerFromContext(ctx)
	svc := app.configService()
	cfg, err := svc.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("config loaded", "path", svc.Path())
	return svc, cfg, groups.NewGroupManager(nil, cfg.GroupState()), nil
}

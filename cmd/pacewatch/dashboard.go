package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janekbaraniewski/pacewatch/internal/config"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
	"github.com/janekbaraniewski/pacewatch/internal/tui"
)

func runDashboard(ctx context.Context, a *app, opts pipeline.Options, fetchOnStart bool) error {
	if err := tui.LoadThemes(config.ConfigDir()); err != nil {
		log.Printf("dashboard: themes: %v", err)
	}
	tui.SetThemeByName(a.settings().Theme)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(tui.Options{
		Range:        opts.Range,
		Grain:        opts.Grain,
		Selection:    opts.Selection,
		Query:        opts.Query,
		Names:        opts.Names,
		FetchOnStart: fetchOnStart,
		Context:      ctx,
	}, a.fetch)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		err := config.Watch(ctx, config.ConfigPath(), func(cfg config.Config) {
			a.setConfig(cfg)
			program.Send(tui.ConfigReloadedMsg{Config: cfg})
		})
		if err != nil {
			log.Printf("dashboard: settings watch: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
			program.Quit()
		case <-ctx.Done():
		}
	}()

	_, err := program.Run()
	if err != nil && ctx.Err() == nil {
		log.SetOutput(os.Stderr)
		log.Printf("TUI error: %v", err)
		return err
	}
	return nil
}

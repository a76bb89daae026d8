package main

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/config"
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/providers/microad"
)

// app carries the live settings shared by every command. The dashboard swaps
// the config when the settings file changes.
type app struct {
	cfg             atomic.Pointer[config.Config]
	now             func() time.Time
	loadCredentials func() (config.Credentials, error)
}

func newApp(cfg config.Config) *app {
	a := &app{now: time.Now, loadCredentials: config.LoadCredentials}
	a.cfg.Store(&cfg)
	return a
}

func (a *app) settings() config.Config { return *a.cfg.Load() }

func (a *app) setConfig(cfg config.Config) { a.cfg.Store(&cfg) }

// fetch builds a client from the current settings for every call, so a key
// saved from the dashboard is used by the next refresh.
func (a *app) fetch(ctx context.Context, rng core.DateRange) (core.Payload, error) {
	cfg := a.settings()
	creds, err := a.loadCredentials()
	if err != nil {
		log.Printf("main: %v", err)
	}
	client := microad.New(microad.Options{
		BaseURL:    cfg.API.BaseURL,
		APIKey:     cfg.ResolveAPIKey(creds),
		ReportType: cfg.API.ReportType,
		Timeout:    cfg.API.Timeout(),
	})
	return client.FetchReport(ctx, rng)
}

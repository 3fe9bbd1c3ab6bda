package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fentz26/critterfocus/internal/audit"
	"github.com/fentz26/critterfocus/internal/config"
	"github.com/fentz26/critterfocus/internal/creatures"
	"github.com/fentz26/critterfocus/internal/engine"
	"github.com/fentz26/critterfocus/internal/models"
	"github.com/fentz26/critterfocus/internal/store"
	"github.com/fentz26/critterfocus/internal/tasks"
	"github.com/spf13/cobra"
)

// app is everything a command needs, opened once per invocation.
type app struct {
	cfg *config.Config
	db  *store.Store
	svc *engine.Service
	log io.Closer
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func openApp() (*app, error) {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return nil, err
	}

	logger, logFile, err := openLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	db, err := store.New(cfg.DBPath)
	if err != nil {
		closeQuietly(logFile)
		return nil, err
	}

	ts, err := tasks.New(db)
	if err != nil {
		db.Close()
		closeQuietly(logFile)
		return nil, err
	}
	cs, err := creatures.New(db)
	if err != nil {
		db.Close()
		closeQuietly(logFile)
		return nil, err
	}

	svc := engine.NewService(ts, cs, audit.NewPDRWriter(db),
		engine.WithLogger(logger),
		engine.WithMaxFocusMinutes(cfg.MaxFocusMinutes),
		engine.WithInjuryLabel(cfg.InjuryLabel),
	)
	return &app{cfg: cfg, db: db, svc: svc, log: logFile}, nil
}

func openLogger(path string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return log.New(os.Stderr, "critter: ", log.LstdFlags), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), f, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		c.Close()
	}
}

func (a *app) Close() {
	a.db.Close()
	closeQuietly(a.log)
}

// withApp opens the app around a command body.
func withApp(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(a, cmd, args)
	}
}

// resolveTaskID accepts a full id or a unique prefix, as printed by list.
func (a *app) resolveTaskID(ref string) (string, error) {
	var ids []string
	for _, t := range a.svc.Tasks() {
		ids = append(ids, t.ID)
	}
	return resolveID("task", ref, ids)
}

func (a *app) resolveCreatureID(ref string) (string, error) {
	var ids []string
	for _, c := range a.svc.Creatures() {
		ids = append(ids, c.ID)
	}
	return resolveID("creature", ref, ids)
}

// creatureOrSelected resolves ref, falling back to the selected creature.
// An empty result means no creature takes part.
func (a *app) creatureOrSelected(ref string) (string, error) {
	if ref != "" {
		return a.resolveCreatureID(ref)
	}
	if c, ok := a.svc.Selected(); ok {
		return c.ID, nil
	}
	return "", nil
}

func resolveID(kind, ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%s id is required: %w", kind, models.ErrInvalidArgument)
	}
	var match string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("%s id %q is ambiguous: %w", kind, ref, models.ErrConflict)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%s %s: %w", kind, ref, models.ErrNotFound)
	}
	return match, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func formatAmount(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

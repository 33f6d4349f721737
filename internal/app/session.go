package app

import (
	"context"
	"fmt"

	"kitlocal/pkg/docs"
	"kitlocal/pkg/models"
)

// Session bundles the per-scope document handles for one signed-in account.
type Session struct {
	Scope string

	Catalog         *docs.Catalog
	KitLog          *docs.KitLog
	ChatHistory     *docs.ChatHistory
	AnalysisHistory *docs.AnalysisHistory

	app *App
}

func (a *App) openSession(scope string) (*Session, error) {
	catalog, err := docs.OpenCatalog(a.store, scope, a.cfg.CatalogQuiet())
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	kitlog, err := docs.OpenKitLog(a.store, scope, a.cfg.KitLogQuiet())
	if err != nil {
		return nil, fmt.Errorf("failed to open kit log: %w", err)
	}
	chatHist, err := docs.OpenChatHistory(a.store, scope, a.cfg.CatalogQuiet())
	if err != nil {
		return nil, fmt.Errorf("failed to open chat history: %w", err)
	}
	analysis, err := docs.OpenAnalysisHistory(a.store, scope, a.cfg.CatalogQuiet())
	if err != nil {
		return nil, fmt.Errorf("failed to open analysis history: %w", err)
	}
	s := &Session{
		Scope:           scope,
		Catalog:         catalog,
		KitLog:          kitlog,
		ChatHistory:     chatHist,
		AnalysisHistory: analysis,
		app:             a,
	}
	a.registerSession(s)
	return s, nil
}

// SyncChat fetches the authoritative chat snapshot from the document API,
// folds local overrides onto it and caches the merged result. Without a
// configured remote the cached state is returned unchanged.
func (s *Session) SyncChat(ctx context.Context) (models.ChatState, error) {
	if s.app.remote == nil {
		return s.ChatHistory.Get(), nil
	}
	server, err := s.app.remote.FetchChatState(ctx)
	if err != nil {
		// offline: keep serving the cached merge
		return s.ChatHistory.Get(), err
	}
	return s.ChatHistory.ApplyServerSnapshot(s.app.overrides, server), nil
}

// Flush persists every pending document write, returning the first error.
// The maintenance checkpoint runs this across all open sessions.
func (s *Session) Flush() error {
	var first error
	for _, f := range []interface{ Flush() error }{s.Catalog, s.KitLog, s.ChatHistory, s.AnalysisHistory} {
		if err := f.Flush(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close flushes every pending document write and detaches the session from
// the maintenance checkpoint.
func (s *Session) Close() error {
	s.app.unregisterSession(s)
	return s.Flush()
}

package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "charm.land/bubbletea/v2"
)

// safeModel recovers panics in Update and View, logs them and keeps the
// program alive with a notice instead of leaving the terminal in raw mode.
type safeModel struct {
	m   Model
	log *slog.Logger
}

var _ tea.Model = safeModel{}

func wrapSafe(m Model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic recovered",
				"where", "tui.update",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			s.m.dragging = false
			s.m.notice = "Unexpected error (see logs)"
			tm = s
			cmd = nil
		}
	}()

	inner, c := s.m.Update(msg)
	if mm, ok := inner.(Model); ok {
		s.m = mm
	}
	return s, c
}

func (s safeModel) View() (v tea.View) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic recovered",
				"where", "tui.view",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			v = tea.NewView("Unexpected error (see logs)")
			v.AltScreen = true
		}
	}()
	return s.m.View()
}

// Run starts the explorer and blocks until the user quits.
// The startup query in opts is fetched immediately.
func Run(ctx context.Context, opts Options) error {
	model := wrapSafe(New(ctx, opts), opts.Logger)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explorer UI error: %w", err)
	}
	return nil
}

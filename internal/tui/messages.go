package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/etymon/internal/explorer"
	"github.com/raphaelgruber/etymon/internal/service"
)

// Simulation frame pacing.
const (
	frameInterval = 33 * time.Millisecond
	ticksPerFrame = 3
)

// fetchDoneMsg carries the outcome of an explorer request.
type fetchDoneMsg struct {
	result explorer.Result
}

// frameMsg steps the layout simulation of generation gen.
// Frames from an older generation belong to a discarded data set.
type frameMsg struct {
	gen int
}

// fetchCmd runs a fetch off the update loop.
func fetchCmd(ctx context.Context, f service.Fetcher, req explorer.Request) tea.Cmd {
	return func() tea.Msg {
		data, err := f.Fetch(ctx, req.Query.Word, req.Query.Language)
		return fetchDoneMsg{result: explorer.Result{Seq: req.Seq, Data: data, Err: err}}
	}
}

// frameCmd schedules the next simulation frame.
func frameCmd(gen int) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

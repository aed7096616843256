package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/etymon/internal/explorer"
	"github.com/raphaelgruber/etymon/internal/layout"
	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	data  *models.EtymologyData
	err   error
	calls []models.Query
}

func (f *fakeFetcher) Fetch(_ context.Context, word, language string) (*models.EtymologyData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, models.Query{Word: word, Language: language})
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func sampleData() *models.EtymologyData {
	return &models.EtymologyData{
		Word:     "etymon",
		Language: "English",
		Summary:  "From Greek étymon, the true sense of a word.",
		Timeline: []models.TimelineStep{
			{Era: "Ancient", Language: "Ancient Greek", Word: "ἔτυμον", Transliteration: "étymon", Kind: models.StepRoot},
			{Era: "Modern", Language: "English", Word: "etymon", Kind: models.StepCurrent},
		},
		Graph: models.Graph{
			Nodes: []models.GraphNode{
				{ID: "a", Label: "ἔτυμον", Transliteration: "étymon", Language: "Ancient Greek", Kind: models.NodeRoot, Definition: "true sense"},
				{ID: "b", Label: "etymon", Language: "English", Kind: models.NodeCurrent},
				{ID: "c", Label: "etimo", Language: "Italian", Kind: models.NodeCognate},
			},
			Links: []models.GraphLink{
				{Source: "a", Target: "b", Kind: models.LinkDerived},
				{Source: "a", Target: "c", Kind: models.LinkCognate},
				{Source: "a", Target: "ghost", Kind: models.LinkBorrowed},
			},
		},
	}
}

func newTestModel(t *testing.T, f *fakeFetcher) Model {
	t.Helper()
	return New(context.Background(), Options{
		Fetcher:  f,
		Word:     "etymon",
		Language: "English",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)
	return mm, cmd
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEsc}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// fetchResult runs cmd and returns the fetch outcome it produced, if any.
func fetchResult(t *testing.T, cmd tea.Cmd) (fetchDoneMsg, bool) {
	t.Helper()
	if cmd == nil {
		return fetchDoneMsg{}, false
	}
	switch msg := cmd().(type) {
	case fetchDoneMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if r, ok := fetchResult(t, c); ok {
				return r, true
			}
		}
	}
	return fetchDoneMsg{}, false
}

// loadedModel returns a model that has received the startup result.
func loadedModel(t *testing.T, f *fakeFetcher) (Model, tea.Cmd) {
	t.Helper()
	m := newTestModel(t, f)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	done, ok := fetchResult(t, m.Init())
	require.True(t, ok)
	return update(t, m, done)
}

func TestStartupQueryIsFetched(t *testing.T) {
	f := &fakeFetcher{data: sampleData()}
	m := newTestModel(t, f)
	assert.Equal(t, explorer.StatusLoading, m.exp.Status())

	m, cmd := loadedModel(t, f)
	require.Len(t, f.calls, 1)
	assert.Equal(t, models.Query{Word: "etymon", Language: "English"}, f.calls[0])
	assert.Equal(t, explorer.StatusSuccess, m.exp.Status())
	require.NotNil(t, m.sim)
	assert.Equal(t, 1, m.gen)
	assert.NotNil(t, cmd)
}

func TestFramesAdvanceCurrentSimulationOnly(t *testing.T) {
	f := &fakeFetcher{data: sampleData()}
	m, _ := loadedModel(t, f)
	first := m.sim

	m, cmd := update(t, m, frameMsg{gen: 1})
	assert.NotNil(t, cmd)
	assert.Less(t, first.Alpha(), 1.0)

	m.input.SetValue("gift")
	m, cmd = update(t, m, key("enter"))
	done, ok := fetchResult(t, cmd)
	require.True(t, ok)
	m, _ = update(t, m, done)

	assert.True(t, first.Stopped())
	assert.Equal(t, 2, m.gen)

	_, cmd = update(t, m, frameMsg{gen: 1})
	assert.Nil(t, cmd)
}

func TestSimulationStopsTickingWhenSettled(t *testing.T) {
	m, _ := loadedModel(t, &fakeFetcher{data: sampleData()})
	var cmd tea.Cmd
	for range 500 {
		m, cmd = update(t, m, frameMsg{gen: m.gen})
		if cmd == nil {
			break
		}
	}
	assert.Nil(t, cmd)
	assert.False(t, m.sim.Running())
	assert.False(t, m.ticking)
}

func TestBlankSubmitIsNoop(t *testing.T) {
	f := &fakeFetcher{data: sampleData()}
	m, _ := loadedModel(t, f)

	m.input.SetValue("   ")
	m, cmd := update(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, explorer.StatusSuccess, m.exp.Status())
	assert.Len(t, f.calls, 1)
}

func TestLanguageSelectorCycles(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{data: sampleData()})
	require.Equal(t, 0, m.langIdx)

	m, _ = update(t, m, key("down"))
	assert.Equal(t, models.Languages[1], m.languages[m.langIdx])
	m, _ = update(t, m, key("up"))
	m, _ = update(t, m, key("up"))
	assert.Equal(t, models.Languages[len(models.Languages)-1], m.languages[m.langIdx])
}

func TestCustomLanguageIsSelectable(t *testing.T) {
	m := New(context.Background(), Options{Fetcher: &fakeFetcher{}, Word: "ord", Language: "Old Norse"})
	assert.Equal(t, "Old Norse", m.languages[m.langIdx])
	assert.Equal(t, "Old Norse", m.exp.Query().Language)
}

func TestTimelineStepJumpsToGraph(t *testing.T) {
	m, _ := loadedModel(t, &fakeFetcher{data: sampleData()})

	m, _ = update(t, m, key("tab"))
	require.Equal(t, focusTimeline, m.focus)
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("enter"))

	assert.Equal(t, "b", m.exp.SelectedID())
	assert.Equal(t, focusGraph, m.focus)
	assert.Equal(t, explorer.PaneGraph, m.exp.ActivePane())

	m, _ = update(t, m, key("esc"))
	assert.Empty(t, m.exp.SelectedID())
	assert.Equal(t, explorer.StatusSuccess, m.exp.Status())
	assert.NotNil(t, m.exp.Data())
}

func TestGraphNodeCycling(t *testing.T) {
	m, _ := loadedModel(t, &fakeFetcher{data: sampleData()})
	m.setFocus(focusGraph)

	m, _ = update(t, m, key("n"))
	assert.Equal(t, "a", m.exp.SelectedID())
	m, _ = update(t, m, key("n"))
	assert.Equal(t, "b", m.exp.SelectedID())
	m, _ = update(t, m, key("p"))
	m, _ = update(t, m, key("p"))
	assert.Equal(t, "c", m.exp.SelectedID())
}

func TestGraphZoomIsClamped(t *testing.T) {
	m, _ := loadedModel(t, &fakeFetcher{data: sampleData()})
	m.setFocus(focusGraph)

	for range 20 {
		m, _ = update(t, m, key("+"))
	}
	assert.False(t, m.autoFit)
	assert.Equal(t, layout.MaxZoom, m.view.Zoom)

	for range 40 {
		m, _ = update(t, m, key("-"))
	}
	assert.Equal(t, layout.MinZoom, m.view.Zoom)

	m, _ = update(t, m, key("0"))
	assert.True(t, m.autoFit)
}

func TestGraphDragMovesPinnedNode(t *testing.T) {
	m, _ := loadedModel(t, &fakeFetcher{data: sampleData()})
	m.setFocus(focusGraph)
	m, _ = update(t, m, key("n"))

	m, _ = update(t, m, key("m"))
	require.True(t, m.dragging)
	assert.True(t, m.sim.Dragging("a"))

	before, _ := m.sim.Position("a")
	m, _ = update(t, m, key("right"))
	after, _ := m.sim.Position("a")
	assert.Greater(t, after.X, before.X)

	beforeCol, beforeRow, _ := m.view.Project(before.X, before.Y)
	afterCol, afterRow, _ := m.view.Project(after.X, after.Y)
	assert.Equal(t, beforeCol+dragCols, afterCol)
	assert.Equal(t, beforeRow, afterRow)

	m, _ = update(t, m, key("m"))
	assert.False(t, m.dragging)
	assert.False(t, m.sim.Dragging("a"))
}

func TestErrorAndRetry(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	m := newTestModel(t, f)
	done, ok := fetchResult(t, m.Init())
	require.True(t, ok)
	m, _ = update(t, m, done)
	require.Equal(t, explorer.StatusError, m.exp.Status())

	f.mu.Lock()
	f.err = nil
	f.data = sampleData()
	f.mu.Unlock()

	m.setFocus(focusTimeline)
	m, cmd := update(t, m, key("r"))
	assert.Equal(t, explorer.StatusLoading, m.exp.Status())
	done, ok = fetchResult(t, cmd)
	require.True(t, ok)
	m, _ = update(t, m, done)
	assert.Equal(t, explorer.StatusSuccess, m.exp.Status())
	assert.Len(t, f.calls, 2)
}

func TestEmptyResultWithoutErrorShowsError(t *testing.T) {
	f := &fakeFetcher{}
	m := newTestModel(t, f)
	done, ok := fetchResult(t, m.Init())
	require.True(t, ok)
	require.Nil(t, done.result.Data)
	require.NoError(t, done.result.Err)

	assert.NotPanics(t, func() { m, _ = update(t, m, done) })
	assert.Equal(t, explorer.StatusError, m.exp.Status())
	assert.Nil(t, m.sim)
	assert.False(t, m.ticking)
}

func TestStaleResultIgnored(t *testing.T) {
	f := &fakeFetcher{data: sampleData()}
	m := newTestModel(t, f)
	startup, ok := fetchResult(t, m.Init())
	require.True(t, ok)

	m.input.SetValue("gift")
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)

	m, _ = update(t, m, startup)
	assert.Equal(t, explorer.StatusLoading, m.exp.Status())
	assert.Nil(t, m.sim)
}

func TestRenderWideAndNarrow(t *testing.T) {
	m, _ := loadedModel(t, &fakeFetcher{data: sampleData()})
	m, _ = update(t, m, frameMsg{gen: m.gen})

	out := m.render()
	assert.Contains(t, out, "Timeline")
	assert.Contains(t, out, "Graph")
	assert.Contains(t, out, "etymon")
	assert.NotContains(t, out, "[Timeline]")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 70, Height: 30})
	out = m.render()
	assert.Contains(t, out, "[Timeline]")

	m.setFocus(focusGraph)
	m, _ = update(t, m, key("n"))
	out = m.render()
	assert.Contains(t, out, "[Graph]")
	assert.Contains(t, out, "true sense")
	assert.LessOrEqual(t, strings.Count(out, "\n")+1, 30)
}

func TestViewUsesAltScreen(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{data: sampleData()})
	v := m.View()
	assert.True(t, v.AltScreen)
}

func TestQuit(t *testing.T) {
	m, _ := loadedModel(t, &fakeFetcher{data: sampleData()})
	m.setFocus(focusGraph)
	m, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.True(t, m.sim.Stopped())
	assert.Equal(t, "", m.render())
}

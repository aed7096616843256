package explorer

import (
	"errors"
	"testing"

	"github.com/raphaelgruber/etymon/internal/llm"
	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func etymonData() *models.EtymologyData {
	return &models.EtymologyData{
		Word:     "etymon",
		Language: "English",
		Timeline: []models.TimelineStep{
			{Era: "Ancient", Language: "Ancient Greek", Word: "ἔτυμον", Kind: models.StepRoot},
			{Era: "Modern", Language: "English", Word: "etymon", Kind: models.StepCurrent},
		},
		Graph: models.Graph{
			Nodes: []models.GraphNode{
				{ID: "a", Label: "ἔτυμον", Language: "Ancient Greek", Kind: models.NodeRoot},
				{ID: "b", Label: "etymon", Language: "English", Kind: models.NodeCurrent},
			},
			Links: []models.GraphLink{{Source: "a", Target: "b", Kind: models.LinkDerived}},
		},
	}
}

func loaded(t *testing.T) *Explorer {
	t.Helper()
	e := New()
	req, ok := e.Submit("etymon", "English")
	require.True(t, ok)
	require.True(t, e.Resolve(Result{Seq: req.Seq, Data: etymonData()}))
	return e
}

func TestSubmitBlankWordIsNoop(t *testing.T) {
	for _, word := range []string{"", "   ", "\t\n"} {
		e := New()
		_, ok := e.Submit(word, "English")
		assert.False(t, ok)
		assert.Equal(t, StatusIdle, e.Status())
	}

	e := loaded(t)
	require.True(t, e.SelectNode("a"))
	_, ok := e.Submit("  ", "English")
	assert.False(t, ok)
	assert.Equal(t, StatusSuccess, e.Status())
	assert.Equal(t, "a", e.SelectedID())
}

func TestSubmitClearsErrorAndSelection(t *testing.T) {
	e := loaded(t)
	require.True(t, e.SelectNode("b"))

	req, ok := e.Submit("gift", "German")
	require.True(t, ok)
	assert.Equal(t, StatusLoading, e.Status())
	assert.Empty(t, e.SelectedID())
	assert.Equal(t, models.Query{Word: "gift", Language: "German"}, req.Query)

	e.Resolve(Result{Seq: req.Seq, Err: errors.New("boom")})
	require.Equal(t, StatusError, e.Status())
	assert.NotEmpty(t, e.Err())

	_, ok = e.Submit("gift", "German")
	require.True(t, ok)
	assert.Empty(t, e.Err())
}

func TestSequenceNumbersIncrease(t *testing.T) {
	e := New()
	r1, _ := e.Submit("a", "English")
	r2, _ := e.Submit("b", "English")
	assert.Greater(t, r2.Seq, r1.Seq)
}

func TestResolveDiscardsStaleResults(t *testing.T) {
	e := New()
	slow, _ := e.Submit("first", "English")
	fast, _ := e.Submit("second", "English")

	fresh := etymonData()
	require.True(t, e.Resolve(Result{Seq: fast.Seq, Data: fresh}))

	stale := &models.EtymologyData{Word: "first"}
	assert.False(t, e.Resolve(Result{Seq: slow.Seq, Data: stale}))
	assert.False(t, e.Resolve(Result{Seq: slow.Seq, Err: errors.New("late failure")}))

	assert.Equal(t, StatusSuccess, e.Status())
	assert.Same(t, fresh, e.Data())
}

func TestResolveErrorsShareOneMessage(t *testing.T) {
	errs := []error{
		llm.ErrEmptyResponse,
		llm.ErrMalformedJSON,
		llm.ErrRequestFailed,
		errors.New("dial tcp: connection refused"),
	}
	var messages []string
	for _, err := range errs {
		e := New()
		req, _ := e.Submit("etymon", "English")
		require.True(t, e.Resolve(Result{Seq: req.Seq, Err: err}))
		assert.Equal(t, StatusError, e.Status())
		messages = append(messages, e.Err())
	}
	for _, m := range messages {
		assert.Equal(t, messages[0], m)
	}
}

func TestResolveNilDataIsError(t *testing.T) {
	e := New()
	req, _ := e.Submit("etymon", "English")
	e.Resolve(Result{Seq: req.Seq})
	assert.Equal(t, StatusError, e.Status())
}

func TestRetryResubmitsLastQuery(t *testing.T) {
	e := New()
	first, _ := e.Submit(" etymon ", "English")
	e.Resolve(Result{Seq: first.Seq, Err: llm.ErrRequestFailed})

	req, ok := e.Retry()
	require.True(t, ok)
	assert.Equal(t, first.Query, req.Query)
	assert.Greater(t, req.Seq, first.Seq)
	assert.Equal(t, StatusLoading, e.Status())
}

func TestRetryBeforeAnySubmit(t *testing.T) {
	e := New()
	_, ok := e.Retry()
	assert.False(t, ok)
	assert.Equal(t, StatusIdle, e.Status())
}

func TestSelectStepPicksMatchingNode(t *testing.T) {
	e := New()
	req, _ := e.Submit("x", "English")
	data := &models.EtymologyData{
		Timeline: []models.TimelineStep{{Word: "nodeB", Language: "Latin", Kind: models.StepCurrent}},
		Graph: models.Graph{
			Nodes: []models.GraphNode{
				{ID: "a", Label: "nodeA", Language: "Latin", Kind: models.NodeRoot},
				{ID: "b", Label: "nodeB", Language: "Latin", Kind: models.NodeCurrent},
			},
			Links: []models.GraphLink{{Source: "a", Target: "b", Kind: models.LinkDerived}},
		},
	}
	require.True(t, e.Resolve(Result{Seq: req.Seq, Data: data}))

	require.True(t, e.SelectStep(0))
	assert.Equal(t, "b", e.SelectedID())
	assert.Equal(t, PaneGraph, e.ActivePane())
}

func TestSelectStepWithoutMatch(t *testing.T) {
	e := loaded(t)
	e.data.Timeline = append(e.data.Timeline, models.TimelineStep{Word: "missing", Language: "English"})

	assert.False(t, e.SelectStep(2))
	assert.False(t, e.SelectStep(-1))
	assert.False(t, e.SelectStep(10))
	assert.Empty(t, e.SelectedID())
	assert.Equal(t, PaneTimeline, e.ActivePane())
}

func TestSelectNodeUnknownID(t *testing.T) {
	e := loaded(t)
	assert.False(t, e.SelectNode("zzz"))
	assert.Empty(t, e.SelectedID())

	assert.False(t, New().SelectNode("a"))
}

func TestEtymonScenario(t *testing.T) {
	e := New()
	req, ok := e.Submit("etymon", "English")
	require.True(t, ok)
	require.Equal(t, StatusLoading, e.Status())

	require.True(t, e.Resolve(Result{Seq: req.Seq, Data: etymonData()}))
	require.Equal(t, StatusSuccess, e.Status())
	data := e.Data()
	assert.Equal(t, models.StepRoot, data.Timeline[0].Kind)
	assert.Equal(t, models.StepCurrent, data.Timeline[len(data.Timeline)-1].Kind)
	assert.Zero(t, data.UnknownKinds())

	currentIdx := -1
	for i, s := range data.Timeline {
		if s.Kind == models.StepCurrent {
			currentIdx = i
		}
	}
	require.True(t, e.SelectStep(currentIdx))
	assert.Equal(t, PaneGraph, e.ActivePane())
	node, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, models.NodeCurrent, node.Kind)

	e.ClearSelection()
	_, ok = e.Selected()
	assert.False(t, ok)
	assert.Equal(t, StatusSuccess, e.Status())
	assert.Same(t, data, e.Data())
}

func TestTogglePane(t *testing.T) {
	e := New()
	assert.Equal(t, PaneTimeline, e.ActivePane())
	e.TogglePane()
	assert.Equal(t, PaneGraph, e.ActivePane())
	e.TogglePane()
	assert.Equal(t, PaneTimeline, e.ActivePane())
	e.SetPane(PaneGraph)
	assert.Equal(t, "graph", e.ActivePane().String())
}

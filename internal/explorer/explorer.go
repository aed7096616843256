// Package explorer holds the presentation state of an etymology session:
// request status, current data, node selection and the visible pane.
//
// The explorer is not safe for concurrent use. It is owned by a single
// update loop; fetches run elsewhere and report back through Resolve.
package explorer

import (
	"fmt"

	"github.com/raphaelgruber/etymon/internal/llm"
	"github.com/raphaelgruber/etymon/internal/models"
)

// Status is the request lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Pane is the visible view when panes cannot be shown side by side.
type Pane int

const (
	PaneTimeline Pane = iota
	PaneGraph
)

func (p Pane) String() string {
	switch p {
	case PaneTimeline:
		return "timeline"
	case PaneGraph:
		return "graph"
	}
	return fmt.Sprintf("pane(%d)", int(p))
}

// Request is an issued fetch. Seq identifies it among all submissions.
type Request struct {
	Seq   uint64
	Query models.Query
}

// Result is the outcome of a Request.
type Result struct {
	Seq  uint64
	Data *models.EtymologyData
	Err  error
}

// Explorer is the presentation state machine.
type Explorer struct {
	status   Status
	seq      uint64
	query    models.Query
	data     *models.EtymologyData
	errMsg   string
	selected string
	pane     Pane
}

// New returns an explorer in the idle state showing the timeline.
func New() *Explorer {
	return &Explorer{}
}

// Submit starts a fetch for word in language.
// A blank word leaves the state unchanged and returns ok=false.
// Otherwise the explorer enters Loading with error and selection cleared,
// and the returned Request must be fetched and passed to Resolve.
func (e *Explorer) Submit(word, language string) (Request, bool) {
	q := models.NewQuery(word, language)
	if q.Empty() {
		return Request{}, false
	}

	e.seq++
	e.query = q
	e.status = StatusLoading
	e.errMsg = ""
	e.selected = ""
	return Request{Seq: e.seq, Query: q}, true
}

// Retry resubmits the last query.
func (e *Explorer) Retry() (Request, bool) {
	return e.Submit(e.query.Word, e.query.Language)
}

// Resolve applies a fetch outcome. Results for any request other than the
// most recently submitted one are discarded and Resolve returns false.
func (e *Explorer) Resolve(r Result) bool {
	if r.Seq != e.seq || e.status != StatusLoading {
		return false
	}

	if r.Err != nil {
		e.status = StatusError
		e.errMsg = ErrorMessage(r.Err)
		return true
	}
	if r.Data == nil {
		e.status = StatusError
		e.errMsg = ErrorMessage(llm.ErrEmptyResponse)
		return true
	}

	e.status = StatusSuccess
	e.data = r.Data
	return true
}

// SelectNode selects the graph node with id. Unknown ids are ignored.
func (e *Explorer) SelectNode(id string) bool {
	if e.data == nil {
		return false
	}
	if _, ok := e.data.Graph.Node(id); !ok {
		return false
	}
	e.selected = id
	return true
}

// SelectStep selects the graph node matching timeline step i by label and
// language, and switches to the graph pane. Returns false when no node matches.
func (e *Explorer) SelectStep(i int) bool {
	if e.data == nil || i < 0 || i >= len(e.data.Timeline) {
		return false
	}
	step := e.data.Timeline[i]
	node, ok := e.data.Graph.FindByLabel(step.Word, step.Language)
	if !ok {
		return false
	}
	e.selected = node.ID
	e.pane = PaneGraph
	return true
}

// ClearSelection closes the node detail. Status and data are unaffected.
func (e *Explorer) ClearSelection() {
	e.selected = ""
}

// SetPane switches the visible pane.
func (e *Explorer) SetPane(p Pane) {
	e.pane = p
}

// TogglePane switches between timeline and graph.
func (e *Explorer) TogglePane() {
	if e.pane == PaneGraph {
		e.pane = PaneTimeline
	} else {
		e.pane = PaneGraph
	}
}

// Status returns the lifecycle state.
func (e *Explorer) Status() Status { return e.status }

// ActivePane returns the visible pane.
func (e *Explorer) ActivePane() Pane { return e.pane }

// Query returns the last submitted query.
func (e *Explorer) Query() models.Query { return e.query }

// Data returns the current data. It survives a later failed or pending
// request so the previous result stays visible until replaced.
func (e *Explorer) Data() *models.EtymologyData { return e.data }

// Err returns the user-facing message for the Error state.
func (e *Explorer) Err() string { return e.errMsg }

// SelectedID returns the selected node id, empty when nothing is selected.
func (e *Explorer) SelectedID() string { return e.selected }

// Selected returns the selected node, if any.
func (e *Explorer) Selected() (models.GraphNode, bool) {
	if e.selected == "" || e.data == nil {
		return models.GraphNode{}, false
	}
	return e.data.Graph.Node(e.selected)
}

// ErrorMessage converts a fetch failure into the message shown to the user.
// Error kinds are deliberately not distinguished; details go to the log.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return "Failed to fetch etymology. Please try again."
}

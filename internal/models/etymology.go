// Package models defines data structures for the etymology explorer.
package models

// EtymologyData is the unit the model produces for one query and the unit of caching.
// Instances are never mutated after they leave the fetch layer.
type EtymologyData struct {
	Word     string         `json:"word" yaml:"word" jsonschema_description:"The queried word in its native script"`
	Language string         `json:"language" yaml:"language" jsonschema_description:"Language of the queried word"`
	Summary  string         `json:"summary" yaml:"summary" jsonschema_description:"One-paragraph summary of the word's history"`
	Timeline []TimelineStep `json:"timeline" yaml:"timeline" jsonschema_description:"Direct lineage ordered from the root to the current form"`
	Graph    Graph          `json:"graph" yaml:"graph"`
}

// TimelineStep is one stage in a word's lineage.
// Slice order encodes lineage order; there is no ordering field.
type TimelineStep struct {
	Era             string   `json:"era" yaml:"era" jsonschema_description:"Historical period, e.g. Proto-Indo-European"`
	Year            string   `json:"year,omitempty" yaml:"year,omitempty" jsonschema_description:"Approximate year or century, empty if unknown"`
	Language        string   `json:"language" yaml:"language"`
	Word            string   `json:"word" yaml:"word" jsonschema_description:"Form of the word in native script"`
	Transliteration string   `json:"transliteration,omitempty" yaml:"transliteration,omitempty" jsonschema_description:"Latin-alphabet romanization, empty for Latin scripts"`
	Meaning         string   `json:"meaning" yaml:"meaning"`
	Kind            StepKind `json:"type" yaml:"type" jsonschema:"enum=root,enum=ancestor,enum=derived,enum=cognate,enum=borrowing,enum=current"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty" jsonschema_description:"Concise note on the change at this step"`
}

// Graph is the relationship graph around the queried word.
type Graph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Links []GraphLink `json:"links" yaml:"links"`
}

// GraphNode is a word form in the relationship graph.
// ID must be unique within one Graph; the model is trusted on this.
type GraphNode struct {
	ID              string   `json:"id" yaml:"id"`
	Label           string   `json:"label" yaml:"label" jsonschema_description:"Word form in native script"`
	Transliteration string   `json:"transliteration,omitempty" yaml:"transliteration,omitempty" jsonschema_description:"Latin-alphabet romanization, empty for Latin scripts"`
	Language        string   `json:"language" yaml:"language"`
	Definition      string   `json:"definition,omitempty" yaml:"definition,omitempty" jsonschema_description:"Short gloss"`
	Era             string   `json:"era,omitempty" yaml:"era,omitempty" jsonschema_description:"Approximate era"`
	Kind            NodeKind `json:"type" yaml:"type" jsonschema:"enum=root,enum=ancestor,enum=current,enum=cognate,enum=derivative"`
}

// GraphLink connects two nodes by id.
// Source and Target are expected to reference existing nodes but are not checked on decode.
type GraphLink struct {
	Source string   `json:"source" yaml:"source" jsonschema_description:"id of the source node"`
	Target string   `json:"target" yaml:"target" jsonschema_description:"id of the target node"`
	Kind   LinkKind `json:"type" yaml:"type" jsonschema:"enum=derived,enum=borrowed,enum=cognate"`
}

// DisplayName returns the label with its transliteration in parentheses, if any.
func (n GraphNode) DisplayName() string {
	if n.Transliteration == "" || n.Transliteration == n.Label {
		return n.Label
	}
	return n.Label + " (" + n.Transliteration + ")"
}

// DisplayName returns the word with its transliteration in parentheses, if any.
func (s TimelineStep) DisplayName() string {
	if s.Transliteration == "" || s.Transliteration == s.Word {
		return s.Word
	}
	return s.Word + " (" + s.Transliteration + ")"
}

package models

// Node returns the node with the given id.
func (g Graph) Node(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// FindByLabel returns the first node whose label and language equal the given values.
// Matching is exact: the timeline and graph come from the same model response.
func (g Graph) FindByLabel(label, language string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.Label == label && n.Language == language {
			return n, true
		}
	}
	return GraphNode{}, false
}

// ResolvedLinks returns the links whose endpoints both exist.
// Dangling links are dropped rather than treated as errors.
func (g Graph) ResolvedLinks() []GraphLink {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}

	links := make([]GraphLink, 0, len(g.Links))
	for _, l := range g.Links {
		if _, ok := ids[l.Source]; !ok {
			continue
		}
		if _, ok := ids[l.Target]; !ok {
			continue
		}
		links = append(links, l)
	}
	return links
}

// Neighbors returns the ids of nodes directly linked to id, in link order.
func (g Graph) Neighbors(id string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, l := range g.ResolvedLinks() {
		var other string
		switch id {
		case l.Source:
			other = l.Target
		case l.Target:
			other = l.Source
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// UnknownKinds counts timeline steps, nodes and links whose kind is outside
// the closed vocabularies.
func (d *EtymologyData) UnknownKinds() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, s := range d.Timeline {
		if !s.Kind.Valid() {
			n++
		}
	}
	for _, node := range d.Graph.Nodes {
		if !node.Kind.Valid() {
			n++
		}
	}
	for _, l := range d.Graph.Links {
		if !l.Kind.Valid() {
			n++
		}
	}
	return n
}

package models

// StepKind classifies a timeline step.
type StepKind string

const (
	StepRoot      StepKind = "root"
	StepAncestor  StepKind = "ancestor"
	StepDerived   StepKind = "derived"
	StepCognate   StepKind = "cognate"
	StepBorrowing StepKind = "borrowing"
	StepCurrent   StepKind = "current"
)

// StepKinds lists every timeline step kind in lineage order.
var StepKinds = []StepKind{StepRoot, StepAncestor, StepDerived, StepCognate, StepBorrowing, StepCurrent}

// Valid reports whether k is one of the declared step kinds.
func (k StepKind) Valid() bool {
	switch k {
	case StepRoot, StepAncestor, StepDerived, StepCognate, StepBorrowing, StepCurrent:
		return true
	}
	return false
}

// NodeKind classifies a graph node.
type NodeKind string

const (
	NodeRoot       NodeKind = "root"
	NodeAncestor   NodeKind = "ancestor"
	NodeCurrent    NodeKind = "current"
	NodeCognate    NodeKind = "cognate"
	NodeDerivative NodeKind = "derivative"
)

// NodeKinds lists every graph node kind.
var NodeKinds = []NodeKind{NodeRoot, NodeAncestor, NodeCurrent, NodeCognate, NodeDerivative}

// Valid reports whether k is one of the declared node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case NodeRoot, NodeAncestor, NodeCurrent, NodeCognate, NodeDerivative:
		return true
	}
	return false
}

// LinkKind classifies a graph link.
type LinkKind string

const (
	LinkDerived  LinkKind = "derived"
	LinkBorrowed LinkKind = "borrowed"
	LinkCognate  LinkKind = "cognate"
)

// LinkKinds lists every graph link kind.
var LinkKinds = []LinkKind{LinkDerived, LinkBorrowed, LinkCognate}

// Valid reports whether k is one of the declared link kinds.
func (k LinkKind) Valid() bool {
	switch k {
	case LinkDerived, LinkBorrowed, LinkCognate:
		return true
	}
	return false
}

// Dashed reports whether links of this kind are drawn dashed.
// Only direct derivation is drawn solid.
func (k LinkKind) Dashed() bool {
	switch k {
	case LinkDerived:
		return false
	case LinkBorrowed, LinkCognate:
		return true
	}
	return true
}

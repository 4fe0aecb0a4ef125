// Package loom is a retained-mode terminal UI framework. Applications
// describe the interface as a tree of immutable components; the
// framework maintains a persistent element tree behind it, reconciles
// component changes into minimal element updates, and drives a
// build, layout, paint, emit pipeline against a cell buffer that is
// diffed to the terminal.
package loom

// Key distinguishes siblings of the same kind during reconciliation.
// Two components match only when their kinds and keys both agree. A
// nil key matches only nil.
type Key any

// Component is an immutable description of one node of the interface.
// Components are cheap to construct and are compared, not mutated; all
// retained state lives in the element tree.
type Component interface {
	ComponentKey() Key
}

// ComponentBase provides the key field shared by all components
type ComponentBase struct {
	Key Key
}

// ComponentKey returns the reconciliation key
func (c ComponentBase) ComponentKey() Key {
	return c.Key
}

// BuildContext gives build methods access to their position in the
// element tree
type BuildContext interface {
	// Owner returns the build owner coordinating rebuilds
	Owner() *BuildOwner
}

// StatelessComponent describes part of the interface purely as a
// function of its own configuration
type StatelessComponent interface {
	Component
	Build(ctx BuildContext) Component
}

// StatefulComponent describes part of the interface that owns mutable
// state. The component itself stays immutable; the state object is
// created once and survives rebuilds.
type StatefulComponent interface {
	Component
	CreateState() State
}

// State holds the mutable data of a StatefulComponent and builds its
// subtree. Lifecycle order is InitState, Build (repeatedly, with
// DidUpdateComponent before builds caused by a new component), then
// Dispose exactly once.
type State interface {
	InitState()
	DidUpdateComponent(old StatefulComponent)
	Build(ctx BuildContext) Component
	Dispose()

	setElement(el *statefulElement)
	element() *statefulElement
}

// StateBase supplies the element plumbing and SetState. Embed it in
// every State implementation.
type StateBase struct {
	el *statefulElement
}

func (s *StateBase) setElement(el *statefulElement) {
	s.el = el
}

func (s *StateBase) element() *statefulElement {
	return s.el
}

// InitState is called once before the first build
func (s *StateBase) InitState() {}

// DidUpdateComponent is called when a new component of the same kind
// reuses this state
func (s *StateBase) DidUpdateComponent(old StatefulComponent) {}

// Dispose is called when the element is permanently removed
func (s *StateBase) Dispose() {}

// SetState applies a mutation and schedules a rebuild of this subtree.
// Calling it after the element is unmounted is a no-op.
func (s *StateBase) SetState(fn func()) {
	if s.el == nil || !s.el.mounted {
		return
	}
	if fn != nil {
		fn()
	}
	s.el.markNeedsBuild()
}

// RenderObjectComponent describes a node that owns a render object
// participating in layout and paint
type RenderObjectComponent interface {
	Component
	CreateRenderObject() RenderObject
	UpdateRenderObject(ro RenderObject)
}

// SingleChildRenderObjectComponent is a render object component with
// at most one child
type SingleChildRenderObjectComponent interface {
	RenderObjectComponent
	Child() Component
}

// MultiChildRenderObjectComponent is a render object component with an
// ordered list of children
type MultiChildRenderObjectComponent interface {
	RenderObjectComponent
	Children() []Component
}

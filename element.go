package loom

import (
	"reflect"
	"sort"
)

// Element is one node of the retained tree that persists across
// builds. Elements pair a component with its mutable runtime identity:
// state objects, render objects, and children.
type Element interface {
	BuildContext

	// Mount attaches the element under a parent and inflates its
	// subtree
	Mount(parent Element)
	// Update reconciles a new component into this element. The caller
	// guarantees canUpdate(old, new) held.
	Update(next Component)
	// Unmount permanently removes the element and its subtree
	Unmount()

	Component() Component
	Parent() Element
	Depth() int

	// firstRenderObject returns the nearest render object at or below
	// this element, or nil for an empty subtree
	firstRenderObject() RenderObject

	performRebuild()
	base() *elementBase
}

// canUpdate reports whether an element built for old can absorb next
// in place: same runtime kind and equal keys
func canUpdate(old, next Component) bool {
	if old == nil || next == nil {
		return false
	}
	if reflect.TypeOf(old) != reflect.TypeOf(next) {
		return false
	}
	return old.ComponentKey() == next.ComponentKey()
}

// inflate creates the element species matching a component kind.
// Render object components are checked first so a type may satisfy
// both interfaces without ambiguity.
func inflate(c Component) Element {
	switch comp := c.(type) {
	case RenderObjectComponent:
		return newRenderObjectElement(comp)
	case StatefulComponent:
		return &statefulElement{elementBase: elementBase{component: c}}
	case StatelessComponent:
		return &statelessElement{elementBase: elementBase{component: c}}
	default:
		panic("loom: component implements no buildable interface")
	}
}

// updateChild reconciles one child slot: keep, replace, create, or
// remove depending on the old element and the new component
func updateChild(parent Element, child Element, next Component) Element {
	if next == nil {
		if child != nil {
			child.Unmount()
		}
		return nil
	}
	if child != nil {
		if canUpdate(child.Component(), next) {
			child.Update(next)
			return child
		}
		child.Unmount()
	}
	el := inflate(next)
	el.Mount(parent)
	return el
}

// elementBase carries the fields shared by every element species
type elementBase struct {
	component Component
	parent    Element
	owner     *BuildOwner
	depth     int
	mounted   bool
	dirty     bool
}

func (e *elementBase) Component() Component { return e.component }
func (e *elementBase) Parent() Element      { return e.parent }
func (e *elementBase) Depth() int           { return e.depth }
func (e *elementBase) Owner() *BuildOwner   { return e.owner }
func (e *elementBase) base() *elementBase   { return e }

func (e *elementBase) mountBase(self Element, parent Element) {
	e.parent = parent
	if parent != nil {
		e.owner = parent.Owner()
		e.depth = parent.Depth() + 1
	}
	e.mounted = true
	if e.owner != nil {
		e.owner.scheduleBuild(self)
	}
}

func (e *elementBase) markNeedsBuildOf(self Element) {
	if !e.mounted || e.dirty {
		return
	}
	if e.owner != nil {
		e.owner.scheduleBuild(self)
	}
}

// statelessElement hosts a StatelessComponent and one built child
type statelessElement struct {
	elementBase
	child Element
}

func (e *statelessElement) Mount(parent Element) {
	e.mountBase(e, parent)
	e.performRebuild()
}

func (e *statelessElement) Update(next Component) {
	e.component = next
	e.performRebuild()
}

func (e *statelessElement) performRebuild() {
	e.dirty = false
	built := e.component.(StatelessComponent).Build(e)
	e.child = updateChild(e, e.child, built)
}

func (e *statelessElement) Unmount() {
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	e.mounted = false
}

func (e *statelessElement) firstRenderObject() RenderObject {
	if e.child == nil {
		return nil
	}
	return e.child.firstRenderObject()
}

// statefulElement hosts a StatefulComponent, its long-lived State, and
// one built child
type statefulElement struct {
	elementBase
	state State
	child Element
}

func (e *statefulElement) Mount(parent Element) {
	e.mountBase(e, parent)
	e.state = e.component.(StatefulComponent).CreateState()
	e.state.setElement(e)
	e.state.InitState()
	e.performRebuild()
}

func (e *statefulElement) Update(next Component) {
	old := e.component.(StatefulComponent)
	e.component = next
	e.state.DidUpdateComponent(old)
	e.performRebuild()
}

func (e *statefulElement) performRebuild() {
	e.dirty = false
	built := e.state.Build(e)
	e.child = updateChild(e, e.child, built)
}

func (e *statefulElement) markNeedsBuild() {
	e.markNeedsBuildOf(e)
}

func (e *statefulElement) Unmount() {
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	e.state.Dispose()
	e.state.setElement(nil)
	e.mounted = false
}

func (e *statefulElement) firstRenderObject() RenderObject {
	if e.child == nil {
		return nil
	}
	return e.child.firstRenderObject()
}

// renderObjectElement hosts a RenderObjectComponent, owns its render
// object, and keeps the render child list in sync with the element
// children
type renderObjectElement struct {
	elementBase
	ro       RenderObject
	children []Element
}

func newRenderObjectElement(c RenderObjectComponent) *renderObjectElement {
	return &renderObjectElement{elementBase: elementBase{component: c}}
}

func (e *renderObjectElement) Mount(parent Element) {
	e.mountBase(e, parent)
	comp := e.component.(RenderObjectComponent)
	e.ro = comp.CreateRenderObject()
	e.ro.Base().self = e.ro
	e.attachRenderObject()
	e.performRebuild()
}

// attachRenderObject links the new render object to the nearest render
// object ancestor and hands it the pipeline owner
func (e *renderObjectElement) attachRenderObject() {
	base := e.ro.Base()
	for anc := e.parent; anc != nil; anc = anc.Parent() {
		if roe, ok := anc.(*renderObjectElement); ok {
			base.parent = roe.ro
			base.depth = roe.ro.Base().depth + 1
			base.pipeline = roe.ro.Base().pipeline
			break
		}
	}
	if e.owner != nil && base.pipeline == nil {
		base.pipeline = e.owner.pipeline
	}
	base.MarkNeedsLayout()
}

func (e *renderObjectElement) Update(next Component) {
	e.component = next
	next.(RenderObjectComponent).UpdateRenderObject(e.ro)
	e.ro.Base().MarkNeedsLayout()
	e.performRebuild()
}

func (e *renderObjectElement) performRebuild() {
	e.dirty = false

	var next []Component
	switch comp := e.component.(type) {
	case MultiChildRenderObjectComponent:
		next = comp.Children()
	case SingleChildRenderObjectComponent:
		if child := comp.Child(); child != nil {
			next = []Component{child}
		}
	}

	e.children = reconcileChildren(e, e.children, next)
	e.syncRenderChildren()
}

// syncRenderChildren rebuilds the render object's child list from the
// element children's nearest render objects
func (e *renderObjectElement) syncRenderChildren() {
	base := e.ro.Base()
	base.children = base.children[:0]
	for _, child := range e.children {
		if ro := child.firstRenderObject(); ro != nil {
			rb := ro.Base()
			rb.parent = e.ro
			rb.depth = base.depth + 1
			rb.pipeline = base.pipeline
			base.children = append(base.children, ro)
		}
	}
}

func (e *renderObjectElement) Unmount() {
	for _, child := range e.children {
		child.Unmount()
	}
	e.children = nil
	if e.ro != nil {
		e.ro.Base().detach()
	}
	e.mounted = false
}

func (e *renderObjectElement) firstRenderObject() RenderObject {
	return e.ro
}

// reconcileChildren matches an old element list against a new
// component list. Keyed components match by key anywhere in the old
// list; unkeyed components match positionally among the unclaimed.
func reconcileChildren(parent Element, old []Element, next []Component) []Element {
	if len(next) == 0 {
		for _, el := range old {
			el.Unmount()
		}
		return nil
	}

	var keyed map[Key]Element
	for _, el := range old {
		if k := el.Component().ComponentKey(); k != nil {
			if keyed == nil {
				keyed = make(map[Key]Element)
			}
			keyed[k] = el
		}
	}

	claimed := make(map[Element]bool, len(old))
	out := make([]Element, 0, len(next))
	pos := 0 // Cursor over unkeyed old elements

	for _, comp := range next {
		var match Element

		if k := comp.ComponentKey(); k != nil {
			if el, ok := keyed[k]; ok && !claimed[el] && canUpdate(el.Component(), comp) {
				match = el
			}
		} else {
			for pos < len(old) {
				el := old[pos]
				if claimed[el] || el.Component().ComponentKey() != nil {
					pos++
					continue
				}
				if canUpdate(el.Component(), comp) {
					match = el
				}
				break
			}
		}

		if match != nil {
			claimed[match] = true
			if match == safeIndex(old, pos) {
				pos++
			}
			match.Update(comp)
			out = append(out, match)
			continue
		}

		el := inflate(comp)
		el.Mount(parent)
		out = append(out, el)
	}

	for _, el := range old {
		if !claimed[el] {
			el.Unmount()
		}
	}
	return out
}

func safeIndex(els []Element, i int) Element {
	if i < 0 || i >= len(els) {
		return nil
	}
	return els[i]
}

// BuildOwner tracks elements whose component descriptions are stale
// and rebuilds them parent-first
type BuildOwner struct {
	dirty    []Element
	pipeline *PipelineOwner

	onScheduled func()
}

// NewBuildOwner creates a build owner bound to a pipeline
func NewBuildOwner(pipeline *PipelineOwner) *BuildOwner {
	return &BuildOwner{pipeline: pipeline}
}

// OnBuildScheduled registers a callback fired the first time an
// element is queued while the dirty list is empty
func (o *BuildOwner) OnBuildScheduled(fn func()) {
	o.onScheduled = fn
}

func (o *BuildOwner) scheduleBuild(el Element) {
	b := el.base()
	if b.dirty {
		return
	}
	b.dirty = true
	wasEmpty := len(o.dirty) == 0
	o.dirty = append(o.dirty, el)
	if wasEmpty && o.onScheduled != nil {
		o.onScheduled()
	}
}

// FlushBuild rebuilds every dirty element in depth order so parents
// rebuild before children; a parent rebuild that updates a dirty child
// clears the child's flag and its queue entry becomes a no-op
func (o *BuildOwner) FlushBuild() {
	for len(o.dirty) > 0 {
		batch := o.dirty
		o.dirty = nil
		sort.SliceStable(batch, func(i, j int) bool {
			return batch[i].Depth() < batch[j].Depth()
		})
		for _, el := range batch {
			if b := el.base(); b.dirty && b.mounted {
				el.performRebuild()
			}
		}
	}
}

// MountRoot inflates a component tree as the root element
func (o *BuildOwner) MountRoot(c Component) Element {
	el := inflate(c)
	el.base().owner = o
	el.Mount(nil)
	return el
}

package loom

import (
	"errors"
	"testing"

	"github.com/lixenwraith/loom/render"
)

// oversizeBox ignores its constraints and reports a fixed size
type oversizeBox struct {
	ComponentBase
}

func (oversizeBox) CreateRenderObject() RenderObject { return &renderOversize{} }
func (oversizeBox) UpdateRenderObject(RenderObject)  {}

type renderOversize struct {
	RenderBase
}

func (r *renderOversize) PerformLayout(Constraints) Size {
	return Size{W: 100, H: 100}
}

func (r *renderOversize) Paint(*render.Canvas, Offset) {}

func TestLayoutViolationClampsAndReports(t *testing.T) {
	pipeline := NewPipelineOwner()
	var got []error
	pipeline.OnError(func(err error) { got = append(got, err) })
	owner := NewBuildOwner(pipeline)

	root := owner.MountRoot(oversizeBox{})
	owner.FlushBuild()
	ro := root.firstRenderObject()
	Layout(ro, TightFor(10, 5))

	if sz := ro.Base().Size(); sz.W != 10 || sz.H != 5 {
		t.Fatalf("size = %+v, want clamped to 10x5", sz)
	}
	if len(got) != 1 {
		t.Fatalf("errors = %v, want one violation", got)
	}
	var v LayoutViolation
	if !errors.As(got[0], &v) {
		t.Fatalf("error type = %T", got[0])
	}
	if v.Size.W != 100 || v.Constraints.MaxW != 10 {
		t.Errorf("violation = %+v", v)
	}
}

func TestFlushLayoutReportsViolation(t *testing.T) {
	pipeline := NewPipelineOwner()
	var got []error
	pipeline.OnError(func(err error) { got = append(got, err) })
	owner := NewBuildOwner(pipeline)

	root := owner.MountRoot(oversizeBox{})
	owner.FlushBuild()
	ro := root.firstRenderObject()
	Layout(ro, TightFor(10, 5))

	ro.Base().MarkNeedsLayout()
	pipeline.FlushLayout()

	if len(got) != 2 {
		t.Fatalf("errors = %d, want 2", len(got))
	}
	if sz := ro.Base().Size(); sz.W != 10 || sz.H != 5 {
		t.Errorf("size after flush = %+v, want 10x5", sz)
	}
}

func TestWellSizedLayoutReportsNothing(t *testing.T) {
	pipeline := NewPipelineOwner()
	var got []error
	pipeline.OnError(func(err error) { got = append(got, err) })
	owner := NewBuildOwner(pipeline)

	root := owner.MountRoot(Text{Content: "ok"})
	owner.FlushBuild()
	Layout(root.firstRenderObject(), TightFor(10, 5))

	if len(got) != 0 {
		t.Errorf("errors = %v, want none", got)
	}
}

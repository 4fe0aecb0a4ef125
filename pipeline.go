package loom

import "sort"

// PipelineOwner collects render objects whose layout or paint is stale.
// FlushLayout re-lays the layout queue; paint requests only schedule a
// frame and are discarded at the end of FlushLayout.
type PipelineOwner struct {
	needLayout []RenderObject
	needPaint  []RenderObject

	onVisualUpdate func()
	onError        func(error)
}

// NewPipelineOwner creates an empty pipeline owner
func NewPipelineOwner() *PipelineOwner {
	return &PipelineOwner{}
}

// OnNeedsVisualUpdate registers a callback fired when the first stale
// object is queued, so the host can schedule a frame
func (p *PipelineOwner) OnNeedsVisualUpdate(fn func()) {
	p.onVisualUpdate = fn
}

// OnError registers the sink for non-fatal pipeline errors such as
// layout violations
func (p *PipelineOwner) OnError(fn func(error)) {
	p.onError = fn
}

func (p *PipelineOwner) reportError(err error) {
	if p.onError != nil {
		p.onError(err)
	}
}

// RequestLayout queues a relayout boundary for the next flush
func (p *PipelineOwner) RequestLayout(ro RenderObject) {
	wasClean := len(p.needLayout) == 0 && len(p.needPaint) == 0
	p.needLayout = append(p.needLayout, ro)
	if wasClean && p.onVisualUpdate != nil {
		p.onVisualUpdate()
	}
}

// RequestPaint queues a repaint for the next flush
func (p *PipelineOwner) RequestPaint(ro RenderObject) {
	wasClean := len(p.needLayout) == 0 && len(p.needPaint) == 0
	p.needPaint = append(p.needPaint, ro)
	if wasClean && p.onVisualUpdate != nil {
		p.onVisualUpdate()
	}
}

// HasWork reports whether anything is queued
func (p *PipelineOwner) HasWork() bool {
	return len(p.needLayout) > 0 || len(p.needPaint) > 0
}

// FlushLayout re-lays every queued boundary shallowest first, so a
// parent pass that already laid out a queued descendant turns that
// entry into a no-op. Layouts requested during the flush are absorbed
// into the same pass.
func (p *PipelineOwner) FlushLayout() {
	for len(p.needLayout) > 0 {
		batch := p.needLayout
		p.needLayout = nil
		sort.SliceStable(batch, func(i, j int) bool {
			return batch[i].Base().depth < batch[j].Base().depth
		})
		for _, ro := range batch {
			b := ro.Base()
			if !b.needsLayout || !b.hasLayout || b.pipeline == nil {
				continue
			}
			b.needsLayout = false
			size := ro.PerformLayout(b.constraints)
			if !b.constraints.IsSatisfiedBy(size) {
				p.reportError(LayoutViolation{Constraints: b.constraints, Size: size})
				size = b.constraints.Constrain(size)
			}
			b.size = size
		}
	}
	// Every frame repaints the full tree into a fresh buffer, so paint
	// requests only drive frame scheduling
	p.needPaint = p.needPaint[:0]
}

// Package observability carries pipeline, cache and outbound-call events to
// whatever is installed to record them. Nothing is recorded until a
// [Recorder] is installed with [Use]; the server installs the Prometheus
// one.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Step names a pipeline stage.
type Step string

const (
	StepGenerate Step = "generate"
	StepLayout   Step = "layout"
	StepRender   Step = "render"
)

// StepEvent is one finished pipeline step.
type StepEvent struct {
	Step Step
	// Subject is the model for generate, the focus for layout and the
	// format for render.
	Subject string
	// Size is the node count produced by generate, the visible node count
	// of a layout, or the artifact length of a render.
	Size     int
	Duration time.Duration
	Err      error
}

// CacheResult is the outcome of a cache access.
type CacheResult string

const (
	CacheHit  CacheResult = "hit"
	CacheMiss CacheResult = "miss"
	CacheSet  CacheResult = "set"
)

// CacheEvent is one cache access. KeyType is "graphgen", "layout" or
// "artifact"; Bytes is only set for writes.
type CacheEvent struct {
	KeyType string
	Result  CacheResult
	Bytes   int
}

// CallEvent is one outbound HTTP attempt. Status is zero when no response
// arrived, in which case Err says why.
type CallEvent struct {
	Method   string
	Host     string
	Path     string
	Status   int
	Duration time.Duration
	Err      error
}

// Recorder receives events. Implementations must be safe for concurrent
// use and must not block.
type Recorder interface {
	Step(ctx context.Context, ev StepEvent)
	Cache(ctx context.Context, ev CacheEvent)
	Call(ctx context.Context, ev CallEvent)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Step(context.Context, StepEvent)   {}
func (Discard) Cache(context.Context, CacheEvent) {}
func (Discard) Call(context.Context, CallEvent)   {}

// holder lets an interface value live behind an atomic pointer.
type holder struct{ r Recorder }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{r: Discard{}}) }

// Get returns the installed recorder.
func Get() Recorder { return current.Load().r }

// Use installs r and returns a func that reinstates the previous recorder.
// A nil r installs [Discard].
func Use(r Recorder) (restore func()) {
	if r == nil {
		r = Discard{}
	}
	prev := current.Swap(&holder{r: r})
	return func() { current.Store(prev) }
}

// Begin starts timing step. The returned func records the step with the
// elapsed time; call it exactly once.
func Begin(ctx context.Context, step Step, subject string) func(size int, err error) {
	start := time.Now()
	return func(size int, err error) {
		Get().Step(ctx, StepEvent{
			Step:     step,
			Subject:  subject,
			Size:     size,
			Duration: time.Since(start),
			Err:      err,
		})
	}
}

// RecordCache reports a cache access to the installed recorder.
func RecordCache(ctx context.Context, keyType string, result CacheResult, bytes int) {
	Get().Cache(ctx, CacheEvent{KeyType: keyType, Result: result, Bytes: bytes})
}

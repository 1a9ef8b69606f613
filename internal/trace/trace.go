// Package trace reads recorded pointer streams and replays them through a
// scroll controller.
//
// A trace is a TOML document:
//
//	content = 1000
//	viewport = 400
//
//	[[step]]
//	kind = "press"
//	time_ms = 0
//	pointer = 0
//	position = 100
//
//	[[step]]
//	kind = "frame"
//	time_ms = 16
//
// Multi-touch steps list every contact in pointers and name the one that
// changed with action_index.
package trace

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/glide"
)

// Step kinds.
const (
	KindPress       = "press"
	KindMove        = "move"
	KindRelease     = "release"
	KindCancel      = "cancel"
	KindPointerDown = "pointer_down"
	KindPointerUp   = "pointer_up"
	KindFrame       = "frame"
	KindFling       = "fling"
	KindContent     = "content"
	KindViewport    = "viewport"
)

var actions = map[string]glide.Action{
	KindPress:       glide.ActionPress,
	KindMove:        glide.ActionMove,
	KindRelease:     glide.ActionRelease,
	KindCancel:      glide.ActionCancel,
	KindPointerDown: glide.ActionPointerDown,
	KindPointerUp:   glide.ActionPointerUp,
}

// File is a decoded trace.
type File struct {
	Content  float32 `toml:"content"`
	Viewport float32 `toml:"viewport"`
	Steps    []Step  `toml:"step"`
}

// Step is one recorded input, frame tick or layout change.
type Step struct {
	Kind   string `toml:"kind"`
	TimeMs int64  `toml:"time_ms"`

	// Single-pointer form.
	Pointer  int32   `toml:"pointer"`
	Position float32 `toml:"position"`

	// Multi-pointer form. When set, Pointer and Position are ignored.
	Pointers    []Pointer `toml:"pointers"`
	ActionIndex int       `toml:"action_index"`

	// Velocity for fling steps, extent for content and viewport steps.
	Value float32 `toml:"value"`
}

// Pointer is one contact in a multi-pointer step.
type Pointer struct {
	ID       int32   `toml:"id"`
	Position float32 `toml:"position"`
}

// Parse decodes and checks a trace.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}
	for i, s := range f.Steps {
		switch s.Kind {
		case KindFrame, KindFling, KindContent, KindViewport:
			continue
		}
		if _, ok := actions[s.Kind]; !ok {
			return nil, fmt.Errorf("step %d: unknown kind %q", i, s.Kind)
		}
		if len(s.Pointers) > 0 && (s.ActionIndex < 0 || s.ActionIndex >= len(s.Pointers)) {
			return nil, fmt.Errorf("step %d: action_index %d out of range for %d pointers", i, s.ActionIndex, len(s.Pointers))
		}
	}
	return &f, nil
}

// Load reads and parses a trace file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Event converts a pointer step into an event. ok is false for steps that
// are not pointer input. The caller owns the event and should Release it.
func (s Step) Event() (ev *glide.PointerEvent, ok bool) {
	action, ok := actions[s.Kind]
	if !ok {
		return nil, false
	}
	if len(s.Pointers) == 0 {
		return glide.NewPointerEvent(action, glide.PointerID(s.Pointer), s.Position, s.TimeMs), true
	}
	pointers := make([]glide.Pointer, len(s.Pointers))
	for i, p := range s.Pointers {
		pointers[i] = glide.Pointer{ID: glide.PointerID(p.ID), Position: p.Position}
	}
	return glide.NewPointerBatch(action, s.ActionIndex, s.TimeMs, pointers...), true
}

// Replay applies the trace to c, calling fn after every step with the
// resulting offset. fn may be nil.
func Replay(c *glide.Controller, f *File, fn func(i int, s Step, offset float32)) {
	c.SetContentExtent(f.Content)
	c.SetViewportExtent(f.Viewport)
	for i, s := range f.Steps {
		Apply(c, s)
		if fn != nil {
			fn(i, s, c.Offset())
		}
	}
}

// Apply feeds a single step to c.
func Apply(c *glide.Controller, s Step) {
	switch s.Kind {
	case KindFrame:
		c.OnFrameTick(s.TimeMs)
	case KindFling:
		c.FlingWith(s.Value)
	case KindContent:
		c.SetContentExtent(s.Value)
	case KindViewport:
		c.SetViewportExtent(s.Value)
	default:
		if ev, ok := s.Event(); ok {
			c.OnPointerEvent(ev)
			ev.Release()
		}
	}
}

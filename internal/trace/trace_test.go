package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/glide"
)

const dragTrace = `
content = 1000.0
viewport = 400.0

[[step]]
kind = "press"
time_ms = 0
position = 100.0

[[step]]
kind = "move"
time_ms = 16
position = 40.0

[[step]]
kind = "release"
time_ms = 300
position = 40.0
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(dragTrace))
	require.NoError(t, err)

	want := &File{
		Content:  1000,
		Viewport: 400,
		Steps: []Step{
			{Kind: KindPress, TimeMs: 0, Position: 100},
			{Kind: KindMove, TimeMs: 16, Position: 40},
			{Kind: KindRelease, TimeMs: 300, Position: 40},
		},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"malformed", "[[step]\nkind = 1", "failed to parse trace"},
		{"unknown kind", "[[step]]\nkind = \"swipe\"", `step 0: unknown kind "swipe"`},
		{
			"action index out of range",
			"[[step]]\nkind = \"pointer_up\"\naction_index = 2\npointers = [{id = 0, position = 1.0}]",
			"action_index 2 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drag.toml")
	require.NoError(t, os.WriteFile(path, []byte(dragTrace), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Steps, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read trace")
}

func TestReplay(t *testing.T) {
	f, err := Parse([]byte(dragTrace))
	require.NoError(t, err)

	c := glide.NewController(glide.DefaultConfig())
	var offsets []float32
	Replay(c, f, func(_ int, _ Step, offset float32) {
		offsets = append(offsets, offset)
	})

	assert.Equal(t, []float32{0, 60, 60}, offsets)
	assert.Equal(t, glide.Range{Min: 0, Max: 600}, c.Range())
	assert.False(t, c.Animating())
}

func TestReplayFlingAndLayout(t *testing.T) {
	f := &File{
		Content:  1000,
		Viewport: 400,
		Steps: []Step{
			{Kind: KindFling, Value: 5000},
			{Kind: KindFrame, TimeMs: 0},
			{Kind: KindContent, Value: 700},
			{Kind: KindViewport, Value: 600},
		},
	}
	for ms := int64(16); ms <= 2000; ms += 16 {
		f.Steps = append(f.Steps, Step{Kind: KindFrame, TimeMs: ms})
	}

	c := glide.NewController(glide.DefaultConfig())
	Replay(c, f, nil)

	assert.Equal(t, glide.Range{Min: 0, Max: 100}, c.Range())
	assert.Equal(t, float32(100), c.Offset())
	assert.False(t, c.Animating())
}

func TestStepEvent(t *testing.T) {
	s := Step{
		Kind:        KindPointerDown,
		TimeMs:      42,
		Pointers:    []Pointer{{ID: 0, Position: 10}, {ID: 3, Position: 90}},
		ActionIndex: 1,
	}
	ev, ok := s.Event()
	require.True(t, ok)
	defer ev.Release()

	assert.Equal(t, glide.ActionPointerDown, ev.Action)
	assert.Equal(t, int64(42), ev.TimeMs)
	p, ok := ev.ActionPointer()
	require.True(t, ok)
	assert.Equal(t, glide.Pointer{ID: 3, Position: 90}, p)

	_, ok = Step{Kind: KindFrame}.Event()
	assert.False(t, ok)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTuningIsValid(t *testing.T) {
	tuning := DefaultTuning()
	require.NoError(t, tuning.Validate())

	assert.Equal(t, 7.0, tuning.FreezeTime)
	assert.Equal(t, 11.0, tuning.DecayRate)
	assert.Equal(t, 72.0, tuning.SeekFPS)
	assert.Equal(t, 1.0/45, tuning.MinTimeStep)
	assert.Equal(t, 0.86, tuning.FrameScale)
	assert.Equal(t, 0.74, tuning.BandStart)
}

func TestTuningRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")

	tuning := DefaultTuning()
	tuning.FreezeTime = 4.5
	tuning.SkipIntro = true
	tuning.GradientTop = Color{R: 1, G: 2, B: 3}
	require.NoError(t, WriteTuning(tuning, path))

	got, err := ReadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, tuning, got)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, writeFile(path, "freeze_time: 3.0\n"))

	got, err := ReadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.FreezeTime)
	assert.Equal(t, 11.0, got.DecayRate, "unlisted fields keep defaults")
	assert.Equal(t, 0.86, got.FrameScale)
}

func TestValidateRejectsBrokenValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"zero freeze", func(c *Tuning) { c.FreezeTime = 0 }},
		{"negative decay", func(c *Tuning) { c.DecayRate = -1 }},
		{"zero seek fps", func(c *Tuning) { c.SeekFPS = 0 }},
		{"zero time step", func(c *Tuning) { c.MinTimeStep = 0 }},
		{"slop past freeze", func(c *Tuning) { c.ScrollSlop = 7.0 }},
		{"zero max dt", func(c *Tuning) { c.MaxDeltaT = 0 }},
		{"sub-unit pixel ratio", func(c *Tuning) { c.MaxPixelRatio = 0.5 }},
		{"frame scale above one", func(c *Tuning) { c.FrameScale = 1.2 }},
		{"zero band start", func(c *Tuning) { c.BandStart = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tuning := DefaultTuning()
			tc.mutate(&tuning)
			assert.Error(t, tuning.Validate())
		})
	}
}

func TestReadTuningRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, writeFile(path, "decay_rate: -5\n"))

	_, err := ReadTuning(path)
	assert.Error(t, err)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

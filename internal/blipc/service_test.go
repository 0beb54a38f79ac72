package blipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCommandsProducesLinkedTrack(t *testing.T) {
	cmds := []Command{
		begin("track", 1, "square"),
		val("v", 1, "192"),
		val("a", 1, "c4"),
		end(1),
	}

	result, err := CompileCommands(cmds, nil)
	require.NoError(t, err)
	require.Len(t, result.Tracks, 1)
	walkConsumesExactSize(t, result.Tracks[0].Code)
}

func TestCompileCommandsSurfacesHardFailure(t *testing.T) {
	cmds := []Command{begin("track", 1, "square")}

	result, err := CompileCommands(cmds, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.True(t, HasErrors(result.Diagnostics))
}

func TestBuildCompileBundleSummarizesDiagnostics(t *testing.T) {
	cmds := []Command{
		val("bogus", 1),
		begin("track", 2, "square"),
		val("v", 2, "1"),
		end(2),
	}

	result, err := CompileCommands(cmds, nil)
	require.NoError(t, err)

	bundle := BuildCompileBundle(result)
	assert.True(t, bundle.Success)
	assert.Equal(t, 0, bundle.Summary.ErrorCount)
	assert.GreaterOrEqual(t, bundle.Summary.WarningCount, 1)
	require.NotNil(t, bundle.Manifest)
	assert.Equal(t, 1, bundle.Manifest.TrackCount)
}

func TestServiceCompileBundle(t *testing.T) {
	svc := NewService()
	cmds := []Command{begin("track", 1, "square"), end(1)}

	bundle, result, err := svc.CompileBundle(cmds, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, bundle.Success)
}

type stubDecoder struct {
	frames []int16
	err    error
}

func (s stubDecoder) DecodeWave(data []byte) ([]int16, error) {
	return s.frames, s.err
}

type stubOpener struct {
	data []byte
	err  error
}

func (s stubOpener) Open(path string) ([]byte, error) {
	return s.data, s.err
}

func TestCompileCommandsLoadsSampleViaInjectedCollaborators(t *testing.T) {
	opts := &CompileOptions{
		Decoder: stubDecoder{frames: []int16{1, 2, 3}},
		Opener:  stubOpener{data: []byte{0, 1, 2, 3}},
	}
	cmds := []Command{
		begin("samp", 1, "0"),
		val("load", 1, "wav", "kick.wav"),
		val("pt", 1, "10"),
		end(1),
	}

	result, err := CompileCommands(cmds, opts)
	require.NoError(t, err)
	require.Len(t, result.Samples, 1)

	sample, ok := result.Samples[0].(*DefaultSample)
	require.True(t, ok)
	assert.Equal(t, []int16{1, 2, 3}, sample.Frames)
	assert.Equal(t, 10*PitchUnit, sample.Pitch)
}

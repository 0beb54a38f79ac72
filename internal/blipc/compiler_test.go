package blipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func val(name string, line int, args ...string) Command {
	as := make([]Arg, len(args))
	for i, a := range args {
		as[i] = Arg{Text: a}
	}
	return Command{Token: TokenValue, Name: name, Args: as, Line: line}
}

func begin(name string, line int, args ...string) Command {
	c := val(name, line, args...)
	c.Token = TokenGroupBegin
	return c
}

func end(line int) Command {
	return Command{Token: TokenGroupEnd, Line: line}
}

func push(t *testing.T, c *Compiler, cmds ...Command) {
	t.Helper()
	for _, cmd := range cmds {
		require.NoError(t, c.PushCommand(cmd))
	}
}

// walkConsumesExactSize is the universal "round-trip" invariant from
// spec.md §8: walking linked bytecode with the opcode-size table must
// consume exactly len(data) bytes.
func walkConsumesExactSize(t *testing.T, data []byte) {
	t.Helper()
	offset := 0
	for offset < len(data) {
		offset += 1 + InstructionSize(data, offset)
	}
	assert.Equal(t, len(data), offset)
}

func TestScenarioSingleToneTrack(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c,
		begin("track", 1, "square"),
		val("v", 1, "192"),
		val("st", 1, "6"),
		val("a", 1, "c4"),
		val("s", 1, "4"),
		val("r", 1),
		val("s", 1, "4"),
		end(1),
	)
	require.NoError(t, c.Terminate())

	result := c.buildResult()
	require.Len(t, result.Tracks, 1)
	data := result.Tracks[0].Code
	walkConsumesExactSize(t, data)

	offset := 0
	expectOp := func(op Opcode) {
		require.Equal(t, op, Opcode(data[offset]))
		offset += 1 + InstructionSize(data, offset)
	}
	expectOp(OpWaveform)
	expectOp(OpStepTicks)
	expectOp(OpLineNo)
	expectOp(OpVolume)
	expectOp(OpStepTicks)
	expectOp(OpAttack)
	expectOp(OpStep)
	expectOp(OpRelease)
	expectOp(OpStep)
	expectOp(OpEnd)
	assert.Equal(t, len(data), offset)

	assert.Equal(t, WaveformSquare, result.Tracks[0].InitialWaveform)
}

func TestScenarioArpeggio(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c,
		begin("track", 1, "square"),
		val("a", 1, "c4", "e4", "g4"),
		val("a", 2, "c4"),
		end(2),
	)
	require.NoError(t, c.Terminate())

	data := c.buildResult().Tracks[0].Code
	walkConsumesExactSize(t, data)

	// Skip Waveform, StepTicks, LineNo.
	offset := 1 + InstructionSize(data, 0)
	offset += 1 + InstructionSize(data, offset)
	offset += 1 + InstructionSize(data, offset)

	require.Equal(t, OpAttack, Opcode(data[offset]))
	attackOffset := offset + 1
	offset += 1 + InstructionSize(data, offset)

	require.Equal(t, OpArpeggio, Opcode(data[offset]))
	count := data[offset+1]
	assert.EqualValues(t, 3, count)
	deltaBase := offset + 2
	readI32 := func(p int) int32 {
		b := NewByteBuffer(0)
		b.WriteBytes(data[p : p+4])
		return b.ReadInt32At(0)
	}
	assert.EqualValues(t, 0, readI32(deltaBase))
	c4 := readI32(attackOffset)
	e4Delta := readI32(deltaBase + 4)
	g4Delta := readI32(deltaBase + 8)
	assert.Equal(t, parseNote("e4")-int(c4), int(e4Delta))
	assert.Equal(t, parseNote("g4")-int(c4), int(g4Delta))
}

func TestScenarioUnbalancedGroupFailsAtTerminate(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c, begin("track", 1, "square"))

	err := c.Terminate()
	require.Error(t, err)

	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, "Unterminated groups", diagErr.Diagnostics[0].Message)
}

func TestScenarioUnknownGroupSwallowed(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c,
		begin("foo", 1, "1"),
		val("a", 1, "c4"),
		end(1),
		val("v", 1, "128"),
	)
	require.NoError(t, c.Terminate())

	data := c.buildResult().GlobalTrack.Code
	walkConsumesExactSize(t, data)

	found := false
	offset := 0
	for offset < len(data) {
		if Opcode(data[offset]) == OpVolume {
			found = true
		}
		assert.NotEqual(t, OpAttack, Opcode(data[offset]))
		offset += 1 + InstructionSize(data, offset)
	}
	assert.True(t, found, "expected the outer v:128 to compile")
}

func TestScenarioSlotOverwriteClearsAndReuses(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c,
		begin("grp", 1, "3"),
		val("v", 1, "1"),
		end(1),
		begin("grp", 2, "3"),
		val("v", 2, "2"),
		end(2),
	)

	buf := c.globalTrack.CmdGroups.Get(3)
	require.NotNil(t, buf)
	// Only the second definition's Volume(2*VolumeUnit) should remain.
	count := 0
	data := buf.Bytes()
	offset := 0
	for offset < len(data) {
		if Opcode(data[offset]) == OpVolume {
			count++
		}
		offset += 1 + InstructionSize(data, offset)
	}
	assert.Equal(t, 1, count)
}

func TestResetIsIdempotent(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c, begin("track", 1, "square"), val("v", 1, "1"), end(1))

	c.Reset(false)
	firstTracks := len(c.tracks)
	firstLevel := len(c.groupStack)

	c.Reset(false)
	assert.Equal(t, firstTracks, len(c.tracks))
	assert.Equal(t, firstLevel, len(c.groupStack))
	assert.Equal(t, -1, c.ignoreGroupLevel)
	assert.Equal(t, defaultStepTicks, c.stepTicks)
}

func TestLineNoNeverRepeatsConsecutively(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c,
		begin("track", 1, "square"),
		val("v", 1, "1"),
		val("v", 1, "2"),
		val("v", 2, "3"),
		end(2),
	)
	require.NoError(t, c.Terminate())

	data := c.buildResult().Tracks[0].Code
	lastWasLineNo := false
	var lastValue int32 = -999
	offset := 0
	for offset < len(data) {
		op := Opcode(data[offset])
		if op == OpLineNo {
			b := NewByteBuffer(0)
			b.WriteBytes(data[offset+1 : offset+5])
			v := b.ReadInt32At(0)
			if lastWasLineNo {
				assert.NotEqual(t, lastValue, v)
			}
			lastWasLineNo = true
			lastValue = v
		} else {
			lastWasLineNo = false
		}
		offset += 1 + InstructionSize(data, offset)
	}
}

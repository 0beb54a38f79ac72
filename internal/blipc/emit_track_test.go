package blipc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readI16(data []byte, offset int) int16 {
	return int16(binary.LittleEndian.Uint16(data[offset : offset+2]))
}

func TestStepTicksZeroOrMissingIsNoOp(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c,
		begin("track", 1, "square"),
		val("s", 1, "0"),
		val("t", 1),
		val("st", 1, "0"),
		end(1),
	)
	require.NoError(t, c.Terminate())

	data := c.buildResult().Tracks[0].Code
	for offset := 0; offset < len(data); offset += 1 + InstructionSize(data, offset) {
		op := Opcode(data[offset])
		assert.NotEqual(t, OpStep, op)
		assert.NotEqual(t, OpTicks, op)
	}
	// st:0 never wrote a second StepTicks opcode, so the cursor stays at the
	// track's opening default.
	assert.Equal(t, defaultStepTicks, c.stepTicks)
}

func TestStepTicksClampedToMax(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c,
		begin("track", 1, "square"),
		val("s", 1, "9999"),
		val("st", 1, "9999"),
		end(1),
	)
	require.NoError(t, c.Terminate())

	data := c.buildResult().Tracks[0].Code
	seenStep := false
	var lastStepTicks int16
	for offset := 0; offset < len(data); {
		op := Opcode(data[offset])
		switch op {
		case OpStep:
			assert.EqualValues(t, maxStepTicks, readI16(data, offset+1))
			seenStep = true
		case OpStepTicks:
			// The track's opening StepTicks(defaultStepTicks) precedes the
			// explicit st:9999; only the latter is clamped.
			lastStepTicks = readI16(data, offset+1)
		}
		offset += 1 + InstructionSize(data, offset)
	}
	assert.True(t, seenStep)
	assert.EqualValues(t, maxStepTicks, lastStepTicks)
	assert.Equal(t, maxStepTicks, c.stepTicks)
}

func TestArpeggioSpeedFloorsAtOne(t *testing.T) {
	c := NewCompiler(nil, nil)
	push(t, c,
		begin("track", 1, "square"),
		val("as", 1, "0"),
		end(1),
	)
	require.NoError(t, c.Terminate())

	data := c.buildResult().Tracks[0].Code
	found := false
	for offset := 0; offset < len(data); {
		op := Opcode(data[offset])
		if op == OpArpeggioSpeed {
			assert.EqualValues(t, 1, readI16(data, offset+1))
			found = true
		}
		offset += 1 + InstructionSize(data, offset)
	}
	assert.True(t, found)
}

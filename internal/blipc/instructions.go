package blipc

// Opcode is a single bytecode instruction's leading byte. Every opcode is
// followed by zero or more fixed-width operands whose size is determined
// solely by the opcode — the linker must be able to walk unknown bytecode
// using nothing but this table, since it does not interpret instructions
// semantically.
type Opcode byte

const (
	OpAttack Opcode = iota
	OpArpeggio
	OpRelease
	OpMute
	OpSetRepeatStart
	OpEnd
	OpReturn
	OpAttackTicks
	OpReleaseTicks
	OpMuteTicks
	OpStep
	OpTicks
	OpStepTicks
	OpArpeggioSpeed
	OpVolume
	OpMasterVolume
	OpPanning
	OpDutyCycle
	OpSampleRepeat
	OpPhaseWrap
	OpPitch
	OpEffect
	OpInstrument
	OpWaveform
	OpSample
	OpSampleRange
	OpSampleSustainRange
	OpGroupJump // pre-link only; rewritten to OpCall by the linker
	OpCall      // post-link only
	OpJump      // emitted for the `x` repeat command, operand always -1
	OpLineNo
)

// operandSize gives the fixed operand byte count for every opcode except
// OpArpeggio, whose size additionally depends on its count byte (read
// separately by the walker below).
var operandSize = map[Opcode]int{
	OpAttack:              4,
	OpRelease:             0,
	OpMute:                0,
	OpSetRepeatStart:      0,
	OpEnd:                 0,
	OpReturn:              0,
	OpAttackTicks:         2,
	OpReleaseTicks:        2,
	OpMuteTicks:           2, // spec.md's own table agrees with AttackTicks/ReleaseTicks; see SPEC_FULL.md.
	OpStep:                2,
	OpTicks:               2,
	OpStepTicks:           2,
	OpArpeggioSpeed:       2,
	OpVolume:              2,
	OpMasterVolume:        2,
	OpPanning:             2,
	OpDutyCycle:           1,
	OpSampleRepeat:        1,
	OpPhaseWrap:           4,
	OpPitch:               4,
	OpEffect:              2 + 4 + 4 + 4,
	OpInstrument:          2,
	OpWaveform:            2,
	OpSample:              2,
	OpSampleRange:         4 + 4,
	OpSampleSustainRange:  4 + 4,
	OpGroupJump:           4,
	OpCall:                4,
	OpJump:                4,
	OpLineNo:              4,
}

// InstructionSize returns the number of operand bytes following the opcode
// byte at data[offset], reading the opcode (and, for OpArpeggio, its count
// byte) from data. It does not validate the opcode; callers walking
// known-good linked bytecode rely on every opcode the emitter can produce
// being present in operandSize.
func InstructionSize(data []byte, offset int) int {
	op := Opcode(data[offset])
	if op == OpArpeggio {
		count := int(data[offset+1])
		return 1 + count*4
	}
	return operandSize[op]
}

// MaxArpeggioNotes bounds the number of notes an Attack+Arpeggio pair may
// carry, since the count is written as a single byte.
const MaxArpeggioNotes = 255

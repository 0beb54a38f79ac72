package blipc

// maxStepTicks bounds Step/Ticks/StepTicks operands; a zero or missing
// argument is a no-op rather than a clamped-to-1 write.
const maxStepTicks = 240

// emitTrackCommand handles a value command while the innermost open group is
// a Track, GroupDef, or the synthetic bottom frame — the context that emits
// raw bytecode into the frame's CmdBuffer.
func (c *Compiler) emitTrackCommand(cmd Command) error {
	value, _, ok := cmdTable.lookup(cmd.Name)
	if !ok {
		c.reportSoft(StageEmit, CategoryUnknownCommand, cmd, "unknown command \""+cmd.Name+"\"")
		return nil
	}

	frame := c.top()
	buf := frame.CmdBuffer
	c.emitLineNo(buf, cmd.Line)

	switch value {
	case cmdAttack:
		c.emitAttack(buf, cmd)

	case cmdRelease:
		buf.WriteByte(byte(OpRelease))
		c.emitArpeggioOffIfActive(buf)

	case cmdMute:
		buf.WriteByte(byte(OpMute))
		c.emitArpeggioOffIfActive(buf)

	case cmdSetRepeatStart:
		buf.WriteByte(byte(OpSetRepeatStart))

	case cmdEnd:
		buf.WriteByte(byte(OpEnd))

	case cmdAttackTicks:
		buf.WriteByte(byte(OpAttackTicks))
		buf.WriteInt16(int16(atoiDefault(cmd.Arg(0), 0)))

	case cmdReleaseTicks:
		buf.WriteByte(byte(OpReleaseTicks))
		buf.WriteInt16(int16(atoiDefault(cmd.Arg(0), 0)))

	case cmdMuteTicks:
		buf.WriteByte(byte(OpMuteTicks))
		buf.WriteInt16(int16(atoiDefault(cmd.Arg(0), 0)))

	case cmdStep:
		ticks := atoiDefault(cmd.Arg(0), 0)
		if ticks == 0 {
			return nil
		}
		buf.WriteByte(byte(OpStep))
		buf.WriteInt16(int16(clamp(ticks, 1, maxStepTicks)))

	case cmdTicks:
		ticks := atoiDefault(cmd.Arg(0), 0)
		if ticks == 0 {
			return nil
		}
		buf.WriteByte(byte(OpTicks))
		buf.WriteInt16(int16(clamp(ticks, 1, maxStepTicks)))

	case cmdStepTicks:
		ticks := atoiDefault(cmd.Arg(0), 0)
		if ticks == 0 {
			return nil
		}
		ticks = clamp(ticks, 1, maxStepTicks)
		c.stepTicks = ticks
		buf.WriteByte(byte(OpStepTicks))
		buf.WriteInt16(int16(ticks))

	case cmdArpeggioSpeed:
		speed := atoiDefault(cmd.Arg(0), 0)
		if speed < 1 {
			speed = 1
		}
		buf.WriteByte(byte(OpArpeggioSpeed))
		buf.WriteInt16(int16(speed))

	case cmdVolume:
		buf.WriteByte(byte(OpVolume))
		buf.WriteInt16(int16(atoiDefault(cmd.Arg(0), 0) * VolumeUnit))

	case cmdMasterVolume:
		buf.WriteByte(byte(OpMasterVolume))
		buf.WriteInt16(int16(atoiDefault(cmd.Arg(0), 0) * VolumeUnit))

	case cmdPanning:
		buf.WriteByte(byte(OpPanning))
		buf.WriteInt16(int16(atoiDefault(cmd.Arg(0), 0) * VolumeUnit))

	case cmdDutyCycle:
		buf.WriteByte(byte(OpDutyCycle))
		buf.WriteByte(byte(atoiDefault(cmd.Arg(0), 0)))

	case cmdSampleRepeat:
		buf.WriteByte(byte(OpSampleRepeat))
		buf.WriteByte(byte(atoiDefault(cmd.Arg(0), 0)))

	case cmdPhaseWrap:
		buf.WriteByte(byte(OpPhaseWrap))
		buf.WriteInt32(int32(atoiDefault(cmd.Arg(0), 0)))

	case cmdPitch:
		buf.WriteByte(byte(OpPitch))
		buf.WriteInt32(int32(atoiDefault(cmd.Arg(0), 0) * PitchUnit))

	case cmdEffect:
		c.emitEffect(buf, cmd)

	case cmdInstrument:
		buf.WriteByte(byte(OpInstrument))
		buf.WriteInt16(int16(atoiDefault(cmd.Arg(0), -1)))

	case cmdWaveform:
		c.emitWaveformRef(buf, cmd)

	case cmdSample:
		buf.WriteByte(byte(OpSample))
		buf.WriteInt16(int16(atoiDefault(cmd.Arg(0), -1)))

	case cmdSampleRange:
		c.emitSampleRange(buf, cmd)

	case cmdSampleSustainRange:
		buf.WriteByte(byte(OpSampleSustainRange))
		buf.WriteInt32(int32(atoiDefault(cmd.Arg(0), 0)))
		buf.WriteInt32(int32(atoiDefault(cmd.Arg(1), 0)))

	case cmdGroupJump:
		n := atoiDefault(cmd.Arg(0), -1)
		if n < 0 || n >= maxGroupNumber {
			c.reportSoft(StageEmit, CategoryRangeError, cmd, "group number out of range")
			return nil
		}
		buf.WriteByte(byte(OpGroupJump))
		buf.WriteInt32(int32(n))

	case cmdRepeat:
		buf.WriteByte(byte(OpJump))
		buf.WriteInt32(-1)

	default:
		c.reportSoft(StageEmit, CategoryUnknownCommand, cmd, "command \""+cmd.Name+"\" not valid in this context")
	}

	return nil
}

// emitAttack handles `a:note[:note...]`. A single note emits a plain
// Attack; when an arpeggio is active, that Attack is followed by an
// Arpeggio-off (an Arpeggio with count 0). Two or
// more notes emit Attack for the first note followed by an Arpeggio
// carrying the signed deltas from the first note to each following one.
func (c *Compiler) emitAttack(buf *ByteBuffer, cmd Command) {
	notes := make([]int, 0, cmd.NumArgs())
	for i := 0; i < cmd.NumArgs(); i++ {
		n := parseNote(cmd.Arg(i))
		if n == -1 {
			c.reportSoft(StageEmit, CategoryBadNote, cmd, "invalid note \""+cmd.Arg(i)+"\"")
			continue
		}
		notes = append(notes, n)
	}
	if len(notes) == 0 {
		return
	}

	if len(notes) == 1 {
		buf.WriteByte(byte(OpAttack))
		buf.WriteInt32(int32(notes[0]))
		c.emitArpeggioOffIfActive(buf)
		return
	}

	buf.WriteByte(byte(OpAttack))
	buf.WriteInt32(int32(notes[0]))

	// count = k, the number of note arguments the Attack carried (spec.md
	// §8); the deltas are k values: a leading 0 for the Attack note itself,
	// then k-1 deltas to the remaining notes.
	count := len(notes)
	if count > MaxArpeggioNotes {
		count = MaxArpeggioNotes
	}
	buf.WriteByte(byte(OpArpeggio))
	buf.WriteByte(byte(count))
	buf.WriteInt32(0)
	for i := 1; i < count; i++ {
		buf.WriteInt32(int32(notes[i] - notes[0]))
	}
	c.arpeggioActive = true
}

func (c *Compiler) emitArpeggioOffIfActive(buf *ByteBuffer) {
	if !c.arpeggioActive {
		return
	}
	buf.WriteByte(byte(OpArpeggio))
	buf.WriteByte(0)
	c.arpeggioActive = false
}

// emitEffect handles `e:kind:a:b:c`. Tremolo's b argument is scaled by the
// volume unit, vibrato's by the pitch unit; other kinds pass b through
// unscaled.
func (c *Compiler) emitEffect(buf *ByteBuffer, cmd Command) {
	kind, _, ok := effectTable.lookup(cmd.Arg(0))
	if !ok {
		c.reportSoft(StageEmit, CategoryUnknownCommand, cmd, "unknown effect \""+cmd.Arg(0)+"\"")
		return
	}

	a := atoiDefault(cmd.Arg(1), 0)
	b := atoiDefault(cmd.Arg(2), 0)
	cc := atoiDefault(cmd.Arg(3), 0)

	switch kind {
	case EffectTremolo:
		b *= VolumeUnit
	case EffectVibrato:
		b *= PitchUnit
	}

	buf.WriteByte(byte(OpEffect))
	buf.WriteInt16(int16(kind))
	buf.WriteInt32(int32(a))
	buf.WriteInt32(int32(b))
	buf.WriteInt32(int32(cc))
}

// emitWaveformRef handles `w:name-or-index`: a lookup-table name resolves to
// a built-in waveform kind; anything else is parsed as a numeric custom
// waveform pool index and OR'ed with CustomWaveformFlag.
func (c *Compiler) emitWaveformRef(buf *ByteBuffer, cmd Command) {
	name := cmd.Arg(0)
	value, operandOK := resolveWaveformOperand(name)
	if !operandOK {
		c.reportSoft(StageEmit, CategoryUnknownCommand, cmd, "unknown waveform \""+name+"\"")
		return
	}
	buf.WriteByte(byte(OpWaveform))
	buf.WriteInt16(int16(value))
}

// resolveWaveformOperand shares the name-or-index duality between the `w`
// command and the `track` group header: a recognized lookup-table name
// yields its built-in kind; otherwise a parseable non-negative integer is
// treated as a custom waveform pool index and tagged with CustomWaveformFlag.
func resolveWaveformOperand(name string) (value int, ok bool) {
	if v, _, found := waveformTable.lookup(name); found {
		return v, true
	}
	if n := atoiDefault(name, -1); n >= 0 {
		return n | CustomWaveformFlag, true
	}
	return 0, false
}

// emitSampleRange handles `dn:from:to`. Two zero arguments (or no
// arguments) is normalized to the full range rather than an empty one,
// matching the original's `dn` with no args meaning "the whole sample".
func (c *Compiler) emitSampleRange(buf *ByteBuffer, cmd Command) {
	from := atoiDefault(cmd.Arg(0), 0)
	to := atoiDefault(cmd.Arg(1), 0)
	if from == 0 && to == 0 {
		to = -1
	}
	buf.WriteByte(byte(OpSampleRange))
	buf.WriteInt32(int32(from))
	buf.WriteInt32(int32(to))
}

package blipc

// maxGroupNumber bounds group numbers, instrument/waveform/sample pool
// indices, and track slot numbers; anything ≥ this is rejected.
const maxGroupNumber = 256

// groupBegin handles a GroupBegin token: push a new frame copied from the
// top, look up the group name, and either dispatch to the group-kind-
// specific allocation or start swallowing an unknown group.
func (c *Compiler) groupBegin(cmd Command) error {
	if c.ignoring() {
		c.groupStack = append(c.groupStack, *c.top())
		c.top().Level = len(c.groupStack) - 1
		return nil
	}

	level := len(c.groupStack)
	_, flags, ok := cmdTable.lookup(cmd.Name)
	if !ok || flags&FlagOpenGroup == 0 {
		c.ignoreGroupLevel = level
		c.groupStack = append(c.groupStack, *c.top())
		c.top().Level = level
		return nil
	}

	frame := *c.top()
	frame.Level = level

	switch cmd.Name {
	case "grp":
		if err := c.openGroupDef(cmd, &frame); err != nil {
			return err
		}
	case "instr":
		if err := c.openInstrumentDef(cmd, &frame); err != nil {
			return err
		}
	case "samp":
		if err := c.openSampleDef(cmd, &frame); err != nil {
			return err
		}
	case "wave":
		if err := c.openWaveformDef(cmd, &frame); err != nil {
			return err
		}
	case "track":
		if err := c.openTrackDef(cmd, &frame); err != nil {
			return err
		}
	}

	c.groupStack = append(c.groupStack, frame)
	return nil
}

// groupEnd handles a GroupEnd token: flush a trailing LineNo, pop the top
// frame, and clear ignoreGroupLevel once the stack has unwound back to or
// below the level at which swallowing began. An unbalanced close (stack
// already at the synthetic bottom frame) is a hard error.
func (c *Compiler) groupEnd(cmd Command) error {
	if len(c.groupStack) <= 1 {
		return c.hardError(StageGroup, CategoryStructuralError, cmd, "unbalanced group close")
	}

	if !c.ignoring() {
		top := c.top()
		c.emitLineNo(top.CmdBuffer, cmd.Line)
	}

	c.groupStack = c.groupStack[:len(c.groupStack)-1]

	if c.ignoring() && len(c.groupStack) <= c.ignoreGroupLevel {
		c.ignoreGroupLevel = -1
	}
	return nil
}

func groupIndexOrAppend(cmd Command, argIndex int) int {
	s := cmd.Arg(argIndex)
	if s == "" {
		return -1
	}
	n := atoiDefault(s, -1)
	if n < -1 {
		// Negative indices other than the -1 auto-assign marker are out of
		// range and handled like an index ≥ maxGroupNumber.
		return maxGroupNumber
	}
	return n
}

func (c *Compiler) openGroupDef(cmd Command, frame *GroupFrame) error {
	n := groupIndexOrAppend(cmd, 0)
	if n >= maxGroupNumber {
		c.ignoreGroupLevel = frame.Level
		return nil
	}

	track := frame.Track
	resolved, buf := track.CmdGroups.Resolve(n,
		func() *ByteBuffer { return NewByteBuffer(32) },
		func(existing *ByteBuffer) *ByteBuffer {
			existing.Clear(true)
			return existing
		},
	)
	_ = resolved
	frame.GroupKind = GroupKindGroup
	frame.CmdBuffer = buf
	return nil
}

func (c *Compiler) openInstrumentDef(cmd Command, frame *GroupFrame) error {
	n := groupIndexOrAppend(cmd, 0)
	if n >= maxGroupNumber {
		c.ignoreGroupLevel = frame.Level
		return nil
	}

	_, entry := c.instruments.Resolve(n,
		func() *Instrument { v := c.newInstrument(); return &v },
		nil,
	)
	frame.GroupKind = GroupKindInstrument
	c.currentInstrument = entry
	return nil
}

func (c *Compiler) openSampleDef(cmd Command, frame *GroupFrame) error {
	n := groupIndexOrAppend(cmd, 0)
	if n >= maxGroupNumber {
		c.ignoreGroupLevel = frame.Level
		return nil
	}

	_, entry := c.samples.Resolve(n,
		func() *Sample { v := c.newSample(); return &v },
		nil,
	)
	frame.GroupKind = GroupKindSample
	c.currentSample = entry
	return nil
}

func (c *Compiler) openWaveformDef(cmd Command, frame *GroupFrame) error {
	n := groupIndexOrAppend(cmd, 0)
	if n >= maxGroupNumber {
		c.ignoreGroupLevel = frame.Level
		return nil
	}

	_, entry := c.waveforms.Resolve(n,
		func() *Waveform { v := c.newWaveform(); return &v },
		nil,
	)
	frame.GroupKind = GroupKindWaveform
	c.currentWaveform = entry
	return nil
}

// openTrackDef allocates a fresh CompilerTrack, appends it to the track
// list, and emits its two leading opcodes (initial waveform, initial
// step-tick rate) into its global buffer.
func (c *Compiler) openTrackDef(cmd Command, frame *GroupFrame) error {
	waveform := WaveformSquare
	if name := cmd.Arg(0); name != "" {
		if v, ok := resolveWaveformOperand(name); ok {
			waveform = v
		}
	}

	slot := -1
	if s := cmd.Arg(1); s != "" {
		if n := atoiDefault(s, -1); n >= 0 && n < maxGroupNumber {
			slot = n
		}
	}

	track := newCompilerTrack(waveform, slot)
	c.tracks = append(c.tracks, track)

	track.GlobalCmds.WriteByte(byte(OpWaveform))
	track.GlobalCmds.WriteInt16(int16(waveform))

	track.GlobalCmds.WriteByte(byte(OpStepTicks))
	track.GlobalCmds.WriteInt16(int16(c.stepTicks))

	frame.Track = track
	frame.CmdBuffer = track.GlobalCmds
	return nil
}

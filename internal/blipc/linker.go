package blipc

// Terminate finalizes compilation: it verifies every opened group was
// closed, then links the global track followed by each user track in
// declaration order. It returns a non-nil error (and no usable bytecode) for
// any hard failure — an unbalanced group at this point, or an undefined
// group reference discovered during linking.
func (c *Compiler) Terminate() error {
	if len(c.groupStack) != 1 {
		diag := Diagnostic{
			Category: CategoryStructuralError,
			Message:  "Unterminated groups",
			Severity: SeverityError,
			Stage:    StageLink,
		}
		c.Diagnostics = append(c.Diagnostics, diag)
		return &DiagnosticsError{Diagnostics: []Diagnostic{diag}}
	}

	if err := c.linkTrack(c.globalTrack); err != nil {
		return err
	}
	for _, track := range c.tracks {
		if err := c.linkTrack(track); err != nil {
			return err
		}
	}
	return nil
}

// linkTrack appends End to the track's global buffer, assigns each group
// slot its absolute code offset (appending Return to every non-empty
// group's buffer along the way), rewrites GroupJump to Call in both the
// global buffer and every group buffer, then concatenates the groups onto
// the global buffer in slot order and clears them.
func (c *Compiler) linkTrack(track *CompilerTrack) error {
	track.GlobalCmds.WriteByte(byte(OpEnd))

	n := track.CmdGroups.Len()
	offsets := make([]int, n)
	codeOffset := track.GlobalCmds.Size()

	for i := 0; i < n; i++ {
		buf := track.CmdGroups.Get(i)
		if buf == nil {
			offsets[i] = -1
			continue
		}
		offsets[i] = codeOffset
		buf.WriteByte(byte(OpReturn))
		codeOffset += buf.Size()
	}

	if err := c.byteCodeLink(track.GlobalCmds, offsets); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		buf := track.CmdGroups.Get(i)
		if buf == nil {
			continue
		}
		if err := c.byteCodeLink(buf, offsets); err != nil {
			return err
		}
	}

	for i := 0; i < n; i++ {
		buf := track.CmdGroups.Get(i)
		if buf == nil {
			continue
		}
		track.GlobalCmds.Append(buf)
		buf.Clear(false)
	}

	return nil
}

// byteCodeLink walks buf as a stream of fixed-size opcodes, rewriting every
// GroupJump it finds into a Call with an absolute offset looked up in
// offsets. An operand referring to an empty or out-of-range group slot is a
// hard structural error.
func (c *Compiler) byteCodeLink(buf *ByteBuffer, offsets []int) error {
	data := buf.Bytes()
	offset := 0
	for offset < len(data) {
		op := Opcode(data[offset])
		size := InstructionSize(data, offset)

		if op == OpGroupJump {
			groupNum := int(buf.ReadInt32At(offset + 1))
			if groupNum < 0 || groupNum >= len(offsets) || offsets[groupNum] == -1 {
				diag := Diagnostic{
					Category: CategoryStructuralError,
					Message:  "undefined group number",
					Severity: SeverityError,
					Stage:    StageLink,
				}
				c.Diagnostics = append(c.Diagnostics, diag)
				return &DiagnosticsError{Diagnostics: []Diagnostic{diag}}
			}
			buf.RewriteByteAt(offset, byte(OpCall))
			buf.RewriteInt32At(offset+1, int32(offsets[groupNum]))
		}

		offset += 1 + size
	}
	return nil
}

package blipc

// emitSampleCommand handles a value command while the innermost open group
// is a SampleDef: `load wav <filename>`, `pt <cents>`, `ds <from> <to>`, and
// the no-op `raw` placeholder.
func (c *Compiler) emitSampleCommand(cmd Command) error {
	if c.currentSample == nil {
		return nil
	}

	tableValue, _, ok := miscTable.lookup(cmd.Name)
	if !ok {
		c.reportSoft(StageEmit, CategoryUnknownCommand, cmd, "unknown sample directive \""+cmd.Name+"\"")
		return nil
	}

	sample := *c.currentSample

	switch tableValue {
	case MiscLoad:
		return c.loadSampleWave(sample, cmd)

	case MiscPitch:
		return sample.SetAttr(SampleAttrPitch, atoiDefault(cmd.Arg(0), 0)*PitchUnit)

	case MiscSampleSustainRange:
		return sample.SetSustainRange(atoiDefault(cmd.Arg(0), 0), atoiDefault(cmd.Arg(1), 0))

	case MiscRaw:
		// No defined behavior yet; kept as an explicit no-op placeholder.
		return nil
	}

	return nil
}

// loadSampleWave resolves `load wav <filename>` against the load path,
// synchronously reads the file, and hands its bytes to the injected
// WaveDecoder. An I/O or decode failure is a hard resource error (spec.md
// §7) and aborts compilation.
func (c *Compiler) loadSampleWave(sample Sample, cmd Command) error {
	if cmd.Arg(0) != "wav" {
		c.reportSoft(StageSample, CategoryUnknownCommand, cmd, "unsupported load kind \""+cmd.Arg(0)+"\"")
		return nil
	}
	filename := cmd.Arg(1)

	path, err := resolveLoadPath(&c.loadPath, filename)
	if err != nil {
		return c.hardError(StageSample, CategoryResourceError, cmd, "resolving load path: "+err.Error())
	}

	data, err := c.opener.Open(path)
	if err != nil {
		return c.hardError(StageSample, CategoryResourceError, cmd, "reading \""+path+"\": "+err.Error())
	}

	if c.decoder == nil {
		return c.hardError(StageSample, CategoryResourceError, cmd, "no WAVE decoder configured")
	}

	frames, err := c.decoder.DecodeWave(data)
	if err != nil {
		return c.hardError(StageSample, CategoryResourceError, cmd, "decoding \""+path+"\": "+err.Error())
	}

	return sample.LoadWave(frames)
}

package blipc

import "math"

// emitWaveformCommand handles a value command while the innermost open
// group is a WaveformDef. Only `s` (set frames) is meaningful there. Each
// frame is scaled by VolumeUnit and clamped to the int16 range.
func (c *Compiler) emitWaveformCommand(cmd Command) error {
	if c.currentWaveform == nil {
		return nil
	}
	if cmd.Name != "s" {
		c.reportSoft(StageEmit, CategoryUnknownCommand, cmd, "unknown waveform directive \""+cmd.Name+"\"")
		return nil
	}

	n := cmd.NumArgs()
	if n < 2 || n > MaxWaveformLength {
		c.reportSoft(StageEmit, CategoryArgCountError, cmd, "waveform frame count out of range")
		return nil
	}

	frames := make([]int16, n)
	for i := 0; i < n; i++ {
		frames[i] = int16(clamp(atoiDefault(cmd.Arg(i), 0)*VolumeUnit, math.MinInt16, math.MaxInt16))
	}

	return (*c.currentWaveform).SetFrames(frames, 1, 1)
}

package blipc

// maxSequenceLength bounds both step-sequence and envelope-phase lists.
const maxSequenceLength = 256

// unitForKind gives the scaling factor applied to a sequence/envelope's
// values: volume-unit for Volume and Panning, pitch-unit for Pitch, and no
// scaling at all for DutyCycle.
func unitForKind(kind SequenceKind) int {
	switch kind {
	case SequenceVolume, SequencePanning:
		return VolumeUnit
	case SequencePitch:
		return PitchUnit
	default:
		return 1
	}
}

// sequenceKindFor maps an envelopeTable value onto the SequenceKind it
// targets and whether it is the envelope-phase flavor (as opposed to a flat
// step sequence).
func sequenceKindFor(tableValue int) (kind SequenceKind, isEnvelope, isADSR bool) {
	switch tableValue {
	case EnvelopeVolumeSeq:
		return SequenceVolume, false, false
	case EnvelopePitchSeq:
		return SequencePitch, false, false
	case EnvelopePanningSeq:
		return SequencePanning, false, false
	case EnvelopeDutyCycleSeq:
		return SequenceDutyCycle, false, false
	case EnvelopeVolumeEnv:
		return SequenceVolume, true, false
	case EnvelopePitchEnv:
		return SequencePitch, true, false
	case EnvelopePanningEnv:
		return SequencePanning, true, false
	case EnvelopeDutyCycleEnv:
		return SequenceDutyCycle, true, false
	case EnvelopeADSR:
		return 0, false, true
	default:
		return 0, false, false
	}
}

// clampRepeatWindow keeps a (repeatBegin, repeatLength) pair inside
// [0, total] with begin+length never exceeding total.
func clampRepeatWindow(begin, length, total int) (int, int) {
	begin = clamp(begin, 0, total)
	if begin+length > total {
		length = total - begin
	}
	if length < 0 {
		length = 0
	}
	return begin, length
}

// emitInstrumentCommand handles a value command while the innermost open
// group is an InstrumentDef.
func (c *Compiler) emitInstrumentCommand(cmd Command) error {
	if c.currentInstrument == nil {
		return nil
	}

	tableValue, _, ok := envelopeTable.lookup(cmd.Name)
	if !ok {
		c.reportSoft(StageEmit, CategoryUnknownCommand, cmd, "unknown instrument directive \""+cmd.Name+"\"")
		return nil
	}

	kind, isEnvelope, isADSR := sequenceKindFor(tableValue)
	instrument := *c.currentInstrument

	if isADSR {
		if cmd.NumArgs() < 4 {
			c.reportSoft(StageEmit, CategoryArgCountError, cmd, "adsr requires 4 arguments")
			return nil
		}
		return instrument.SetADSR(ADSR{
			Attack:  atoiDefault(cmd.Arg(0), 0),
			Decay:   atoiDefault(cmd.Arg(1), 0),
			Sustain: atoiDefault(cmd.Arg(2), 0) * VolumeUnit,
			Release: atoiDefault(cmd.Arg(3), 0),
		})
	}

	minArgs := 3
	if isEnvelope {
		minArgs = 4
	}
	if cmd.NumArgs() < minArgs {
		c.reportSoft(StageEmit, CategoryArgCountError, cmd, "too few arguments for \""+cmd.Name+"\"")
		return nil
	}

	begin := atoiDefault(cmd.Arg(0), 0)
	length := atoiDefault(cmd.Arg(1), 1)
	unit := unitForKind(kind)

	if !isEnvelope {
		values := make([]int, 0, cmd.NumArgs()-2)
		for i := 2; i < cmd.NumArgs() && len(values) < maxSequenceLength; i++ {
			values = append(values, atoiDefault(cmd.Arg(i), 0)*unit)
		}
		begin, length = clampRepeatWindow(begin, length, len(values))
		return instrument.SetSequence(kind, Sequence{
			Values:       values,
			RepeatBegin:  begin,
			RepeatLength: length,
		})
	}

	phases := make([]EnvelopePhase, 0, (cmd.NumArgs()-2)/2)
	for i := 2; i+1 < cmd.NumArgs() && len(phases) < maxSequenceLength; i += 2 {
		phases = append(phases, EnvelopePhase{
			Steps: atoiDefault(cmd.Arg(i), 0),
			Value: atoiDefault(cmd.Arg(i+1), 0) * unit,
		})
	}
	begin, length = clampRepeatWindow(begin, length, len(phases))
	return instrument.SetEnvelope(kind, Envelope{
		Phases:       phases,
		RepeatBegin:  begin,
		RepeatLength: length,
	})
}

package blipc

import "sort"

// strval is a sorted (name, value, flags) entry used by every lookup table
// below. Lookup is a binary search over the name, mirroring BKCompiler.c's
// bsearch-over-strval tables.
type strval struct {
	name  string
	value int
	flags uint
}

// FlagOpenGroup marks a command table entry that begins a nested group.
const FlagOpenGroup uint = 1 << 0

// lookupTable is a compile-time-constant sorted array searched by name.
type lookupTable []strval

func (t lookupTable) lookup(name string) (value int, flags uint, ok bool) {
	if name == "" {
		return 0, 0, false
	}
	i := sort.Search(len(t), func(i int) bool { return t[i].name >= name })
	if i < len(t) && t[i].name == name {
		return t[i].value, t[i].flags, true
	}
	return 0, 0, false
}

// Command instruction identifiers, used as table values for cmdTable. They
// are never written to the bytecode: the track emitter maps each one to its
// own Opcode (see instructions.go).
const (
	cmdAttack = iota
	cmdArpeggioSpeed
	cmdAttackTicks
	cmdSample
	cmdDutyCycle
	cmdSampleRange
	cmdSampleRepeat
	cmdSampleSustainRange
	cmdEffect
	cmdGroupJump
	cmdGroupDef
	cmdInstrument
	cmdInstrumentDef
	cmdMute
	cmdMuteTicks
	cmdPanning
	cmdPitch
	cmdPhaseWrap
	cmdRelease
	cmdReleaseTicks
	cmdStep
	cmdSampleDef
	cmdStepTicks
	cmdTicks
	cmdTrackDef
	cmdVolume
	cmdMasterVolume
	cmdWaveform
	cmdWaveformDef
	cmdRepeat
	cmdSetRepeatStart
	cmdEnd
)

// cmdTable is the master command lookup table, sorted by name.
var cmdTable = lookupTable{
	{"a", cmdAttack, 0},
	{"as", cmdArpeggioSpeed, 0},
	{"at", cmdAttackTicks, 0},
	{"d", cmdSample, 0},
	{"dc", cmdDutyCycle, 0},
	{"dn", cmdSampleRange, 0},
	{"dr", cmdSampleRepeat, 0},
	{"ds", cmdSampleSustainRange, 0},
	{"e", cmdEffect, 0},
	{"g", cmdGroupJump, 0},
	{"grp", cmdGroupDef, FlagOpenGroup},
	{"i", cmdInstrument, 0},
	{"instr", cmdInstrumentDef, FlagOpenGroup},
	{"m", cmdMute, 0},
	{"mt", cmdMuteTicks, 0},
	{"p", cmdPanning, 0},
	{"pt", cmdPitch, 0},
	{"pw", cmdPhaseWrap, 0},
	{"r", cmdRelease, 0},
	{"rt", cmdReleaseTicks, 0},
	{"s", cmdStep, 0},
	{"samp", cmdSampleDef, FlagOpenGroup},
	{"st", cmdStepTicks, 0},
	{"stepticks", cmdStepTicks, 0},
	{"t", cmdTicks, 0},
	{"track", cmdTrackDef, FlagOpenGroup},
	{"v", cmdVolume, 0},
	{"vm", cmdMasterVolume, 0},
	{"w", cmdWaveform, 0},
	{"wave", cmdWaveformDef, FlagOpenGroup},
	{"x", cmdRepeat, 0},
	{"xb", cmdSetRepeatStart, 0},
	{"z", cmdEnd, 0},
}

func init() {
	sortLookupTable(cmdTable)
	sortLookupTable(noteTable)
	sortLookupTable(waveformTable)
	sortLookupTable(effectTable)
	sortLookupTable(envelopeTable)
	sortLookupTable(miscTable)
}

func sortLookupTable(t lookupTable) {
	sort.Slice(t, func(i, j int) bool { return t[i].name < t[j].name })
}

// noteTable maps note letter names to 0..11 semitone indices. Like every
// table here it is sorted again at init time, since the lookup is a binary
// search.
var noteTable = lookupTable{
	{"a", 9, 0},
	{"a#", 10, 0},
	{"b", 11, 0},
	{"c", 0, 0},
	{"c#", 1, 0},
	{"d", 2, 0},
	{"d#", 3, 0},
	{"e", 4, 0},
	{"f", 5, 0},
	{"f#", 6, 0},
	{"g", 7, 0},
	{"g#", 8, 0},
	{"h", 11, 0},
}

// Effect kinds, used by the `e` command.
const (
	EffectPortamento = iota
	EffectPanningSlide
	EffectTremolo
	EffectVibrato
	EffectVolumeSlide
)

var effectTable = lookupTable{
	{"pr", EffectPortamento, 0},
	{"ps", EffectPanningSlide, 0},
	{"tr", EffectTremolo, 0},
	{"vb", EffectVibrato, 0},
	{"vs", EffectVolumeSlide, 0},
}

// Built-in waveform kinds, used by the `w` command and the `track` group
// header. Numeric indices for custom waveforms are OR'ed with
// CustomWaveformFlag before being written as an operand.
const (
	WaveformSquare = iota
	WaveformTriangle
	WaveformNoise
	WaveformSawtooth
	WaveformSine
	WaveformSample
)

// CustomWaveformFlag distinguishes a numeric custom-waveform pool index from
// a built-in waveform kind inside a 16-bit Waveform operand.
const CustomWaveformFlag = 1 << 14

var waveformTable = lookupTable{
	{"no", WaveformNoise, 0},
	{"noi", WaveformNoise, 0},
	{"noise", WaveformNoise, 0},
	{"sam", WaveformSample, 0},
	{"sample", WaveformSample, 0},
	{"saw", WaveformSawtooth, 0},
	{"sawtooth", WaveformSawtooth, 0},
	{"si", WaveformSine, 0},
	{"sin", WaveformSine, 0},
	{"sine", WaveformSine, 0},
	{"sm", WaveformSample, 0},
	{"sq", WaveformSquare, 0},
	{"sqr", WaveformSquare, 0},
	{"square", WaveformSquare, 0},
	{"sw", WaveformSawtooth, 0},
	{"tr", WaveformTriangle, 0},
	{"tri", WaveformTriangle, 0},
	{"triangle", WaveformTriangle, 0},
}

// Envelope/sequence kinds used inside an instrument group.
const (
	EnvelopeVolumeSeq = iota
	EnvelopePitchSeq
	EnvelopePanningSeq
	EnvelopeDutyCycleSeq
	EnvelopeADSR
	EnvelopeVolumeEnv
	EnvelopePitchEnv
	EnvelopePanningEnv
	EnvelopeDutyCycleEnv
)

var envelopeTable = lookupTable{
	{"a", EnvelopePitchSeq, 0},
	{"adsr", EnvelopeADSR, 0},
	{"anv", EnvelopePitchEnv, 0},
	{"dc", EnvelopeDutyCycleSeq, 0},
	{"dcnv", EnvelopeDutyCycleEnv, 0},
	{"p", EnvelopePanningSeq, 0},
	{"pnv", EnvelopePanningEnv, 0},
	{"v", EnvelopeVolumeSeq, 0},
	{"vnv", EnvelopeVolumeEnv, 0},
}

// Miscellaneous sample-group directives.
const (
	MiscLoad = iota
	MiscRaw
	MiscPitch
	MiscSampleSustainRange
)

var miscTable = lookupTable{
	{"ds", MiscSampleSustainRange, 0},
	{"load", MiscLoad, 0},
	{"pt", MiscPitch, 0},
	{"raw", MiscRaw, 0},
}

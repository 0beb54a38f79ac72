package blipc

// GroupKind identifies which of the five group contexts a GroupFrame was
// opened for.
type GroupKind int

const (
	GroupKindTrack GroupKind = iota
	GroupKindInstrument
	GroupKindSample
	GroupKindWaveform
	GroupKindGroup
)

// GroupFrame is one entry on the compiler's group stack.
type GroupFrame struct {
	Level     int
	GroupKind GroupKind
	Track     *CompilerTrack
	CmdBuffer *ByteBuffer
}

// CompilerTrack is the per-track compiler state accumulated while a track is
// open, and retained afterward for linking.
type CompilerTrack struct {
	CmdGroups  Pool[ByteBuffer]
	GlobalCmds *ByteBuffer
	Waveform   int
	Slot       int
}

func newCompilerTrack(waveform, slot int) *CompilerTrack {
	return &CompilerTrack{
		GlobalCmds: NewByteBuffer(64),
		Waveform:   waveform,
		Slot:       slot,
	}
}

// Compiler is the root compiler state: the group stack, the tracks being
// assembled, the shared instrument/waveform/sample pools, and the small
// amount of cursor state (load path, step-tick rate, line number, the
// unknown-group swallow marker, and the arpeggio-active flag) threaded
// through command dispatch.
type Compiler struct {
	groupStack []GroupFrame

	tracks      []*CompilerTrack
	globalTrack *CompilerTrack

	instruments Pool[Instrument]
	waveforms   Pool[Waveform]
	samples     Pool[Sample]

	currentInstrument *Instrument
	currentWaveform   *Waveform
	currentSample     *Sample

	loadPath string
	stepTicks int
	lineno    int

	ignoreGroupLevel int
	arpeggioActive   bool

	opener  FileOpener
	decoder WaveDecoder

	newInstrument func() Instrument
	newWaveform   func() Waveform
	newSample     func() Sample

	Diagnostics []Diagnostic
}

const defaultStepTicks = 24

// NewCompiler constructs a ready-to-use Compiler. decoder may be nil only if
// the source never uses `load wav`; opener defaults to DefaultFileOpener
// when nil.
func NewCompiler(decoder WaveDecoder, opener FileOpener) *Compiler {
	if opener == nil {
		opener = DefaultFileOpener{}
	}
	c := &Compiler{
		opener:        opener,
		decoder:       decoder,
		newInstrument: func() Instrument { return NewDefaultInstrument() },
		newWaveform:   func() Waveform { return NewDefaultWaveform() },
		newSample:     func() Sample { return NewDefaultSample() },
	}
	c.Reset(false)
	return c
}

// Reset empties the group stack and the track list, empties the pools unless
// keepData is true, and restores the synthetic bottom frame.
// When keepData is true, pool allocations (instruments/waveforms/samples)
// and their backing arrays are retained for reuse; group buffers are always
// released.
func (c *Compiler) Reset(keepData bool) {
	c.groupStack = c.groupStack[:0]
	c.tracks = nil

	if !keepData {
		c.instruments.Reset(false)
		c.waveforms.Reset(false)
		c.samples.Reset(false)
	}

	c.currentInstrument = nil
	c.currentWaveform = nil
	c.currentSample = nil

	c.loadPath = ""
	c.stepTicks = defaultStepTicks
	c.lineno = -1
	c.ignoreGroupLevel = -1
	c.arpeggioActive = false
	c.Diagnostics = nil

	c.globalTrack = newCompilerTrack(WaveformSquare, -1)
	c.groupStack = append(c.groupStack, GroupFrame{
		Level:     0,
		GroupKind: GroupKindTrack,
		Track:     c.globalTrack,
		CmdBuffer: c.globalTrack.GlobalCmds,
	})
}

// top returns the frame on top of the group stack.
func (c *Compiler) top() *GroupFrame {
	return &c.groupStack[len(c.groupStack)-1]
}

// ignoring reports whether the compiler is currently swallowing an unknown
// group's contents.
func (c *Compiler) ignoring() bool {
	return c.ignoreGroupLevel != -1
}

func (c *Compiler) report(stage DiagnosticStage, category DiagnosticCategory, severity DiagnosticSeverity, cmd Command, message string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{
		Category: category,
		Message:  message,
		Line:     cmd.Line,
		Column:   cmd.Column,
		Severity: severity,
		Stage:    stage,
	})
}

func (c *Compiler) reportSoft(stage DiagnosticStage, category DiagnosticCategory, cmd Command, message string) {
	c.report(stage, category, SeverityWarning, cmd, message)
}

func (c *Compiler) hardError(stage DiagnosticStage, category DiagnosticCategory, cmd Command, message string) error {
	c.report(stage, category, SeverityError, cmd, message)
	return &DiagnosticsError{Diagnostics: []Diagnostic{c.Diagnostics[len(c.Diagnostics)-1]}}
}

// PushCommand dispatches one Command by its token kind and the innermost
// open group's kind. It returns a non-nil error only for a hard failure
// (spec.md §7); unknown commands, unknown groups, bad notes and the like are
// reported to Diagnostics and do not stop compilation.
func (c *Compiler) PushCommand(cmd Command) error {
	switch cmd.Token {
	case TokenGroupBegin:
		return c.groupBegin(cmd)
	case TokenGroupEnd:
		return c.groupEnd(cmd)
	case TokenValue:
		if c.ignoring() {
			return nil
		}
		return c.emitValue(cmd)
	default:
		return nil
	}
}

// emitValue dispatches a value command to the emitter for the innermost
// open group's kind.
func (c *Compiler) emitValue(cmd Command) error {
	switch c.top().GroupKind {
	case GroupKindInstrument:
		return c.emitInstrumentCommand(cmd)
	case GroupKindWaveform:
		return c.emitWaveformCommand(cmd)
	case GroupKindSample:
		return c.emitSampleCommand(cmd)
	default:
		return c.emitTrackCommand(cmd)
	}
}

// emitLineNo lazily emits a LineNo opcode into buf when cmd's line differs
// from the last one emitted.
func (c *Compiler) emitLineNo(buf *ByteBuffer, line int) {
	if line == c.lineno {
		return
	}
	c.lineno = line
	buf.WriteByte(byte(OpLineNo))
	buf.WriteInt32(int32(line))
}

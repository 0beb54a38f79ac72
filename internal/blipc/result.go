package blipc

import "encoding/json"

// CompileOptions configures a single CompileCommands call. The zero value
// is usable: it runs with no WAVE decoder (failing any `load wav`
// directive) and the default filesystem-backed FileOpener.
type CompileOptions struct {
	Decoder               WaveDecoder
	Opener                FileOpener
	NewInstrument         func() Instrument
	NewWaveform           func() Waveform
	NewSample             func() Sample
	EmitDiagnosticsJSON   bool
	DiagnosticsOutputPath string
}

// CompiledTrack is one linked track ready for an engine wrapper: a
// self-contained bytecode image, its initial waveform operand, and its
// requested slot (-1 for auto-assign).
type CompiledTrack struct {
	Code            []byte
	InitialWaveform int
	Slot            int
}

// CompileResult is everything CompileCommands hands back: the linked
// tracks, the three shared pools, and the diagnostics accumulated along the
// way.
type CompileResult struct {
	Tracks          []CompiledTrack
	GlobalTrack     CompiledTrack
	Instruments     []Instrument
	Waveforms       []Waveform
	Samples         []Sample
	Diagnostics     []Diagnostic
	DiagnosticsJSON []byte
}

// CompileCommands drives an already-tokenized command stream through a
// fresh Compiler end to end: push every command, then Terminate. It never
// panics; a hard failure is returned as the error and result.Diagnostics
// still carries everything reported up to that point.
func CompileCommands(commands []Command, opts *CompileOptions) (result *CompileResult, err error) {
	c := NewCompiler(optDecoder(opts), optOpener(opts))
	if opts != nil {
		if opts.NewInstrument != nil {
			c.newInstrument = opts.NewInstrument
		}
		if opts.NewWaveform != nil {
			c.newWaveform = opts.NewWaveform
		}
		if opts.NewSample != nil {
			c.newSample = opts.NewSample
		}
	}

	for _, cmd := range commands {
		if pushErr := c.PushCommand(cmd); pushErr != nil {
			result = c.buildResult()
			return result, pushErr
		}
	}

	if termErr := c.Terminate(); termErr != nil {
		result = c.buildResult()
		return result, termErr
	}

	result = c.buildResult()
	if opts != nil && (opts.EmitDiagnosticsJSON || opts.DiagnosticsOutputPath != "") {
		if b, mErr := json.MarshalIndent(result.Diagnostics, "", "  "); mErr == nil {
			result.DiagnosticsJSON = b
		}
	}
	return result, nil
}

func optDecoder(opts *CompileOptions) WaveDecoder {
	if opts == nil {
		return nil
	}
	return opts.Decoder
}

func optOpener(opts *CompileOptions) FileOpener {
	if opts == nil {
		return nil
	}
	return opts.Opener
}

// buildResult snapshots the compiler's tracks and pools into the
// value-oriented CompileResult shape, moving ownership out of the
// compiler's internals per spec.md §9 (tracks reference pools by index, the
// result carries the pools themselves rather than live pointers back into
// the compiler).
func (c *Compiler) buildResult() *CompileResult {
	r := &CompileResult{
		GlobalTrack: CompiledTrack{
			Code:            append([]byte(nil), c.globalTrack.GlobalCmds.Bytes()...),
			InitialWaveform: c.globalTrack.Waveform,
			Slot:            c.globalTrack.Slot,
		},
		Diagnostics: c.Diagnostics,
	}

	r.Tracks = make([]CompiledTrack, 0, len(c.tracks))
	for _, t := range c.tracks {
		r.Tracks = append(r.Tracks, CompiledTrack{
			Code:            append([]byte(nil), t.GlobalCmds.Bytes()...),
			InitialWaveform: t.Waveform,
			Slot:            t.Slot,
		})
	}

	for _, entry := range c.instruments.All() {
		if entry == nil {
			r.Instruments = append(r.Instruments, nil)
			continue
		}
		r.Instruments = append(r.Instruments, *entry)
	}
	for _, entry := range c.waveforms.All() {
		if entry == nil {
			r.Waveforms = append(r.Waveforms, nil)
			continue
		}
		r.Waveforms = append(r.Waveforms, *entry)
	}
	for _, entry := range c.samples.All() {
		if entry == nil {
			r.Samples = append(r.Samples, nil)
			continue
		}
		r.Samples = append(r.Samples, *entry)
	}

	return r
}

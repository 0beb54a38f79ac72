package blipc

// ProgramManifest is a read-only inventory of a compiled program's shape:
// how many bytes each track occupies and how many slots each shared pool
// uses, without exposing the bytecode or pool contents themselves. An
// engine wrapper (or a build tool reporting on a compile) can use this to
// size buffers or log a summary without walking the raw result.
type ProgramManifest struct {
	TrackCount       int              `json:"track_count"`
	GlobalCodeBytes  int              `json:"global_code_bytes"`
	Tracks           []TrackManifest  `json:"tracks"`
	InstrumentSlots  int              `json:"instrument_slots"`
	WaveformSlots    int              `json:"waveform_slots"`
	SampleSlots      int              `json:"sample_slots"`
}

// TrackManifest describes one compiled track.
type TrackManifest struct {
	Index           int `json:"index"`
	CodeBytes       int `json:"code_bytes"`
	InitialWaveform int `json:"initial_waveform"`
	Slot            int `json:"slot"`
}

// BuildManifest derives a ProgramManifest from a CompileResult. A nil
// result yields a zero-value manifest.
func BuildManifest(result *CompileResult) ProgramManifest {
	m := ProgramManifest{}
	if result == nil {
		return m
	}

	m.GlobalCodeBytes = len(result.GlobalTrack.Code)
	m.TrackCount = len(result.Tracks)
	m.InstrumentSlots = len(result.Instruments)
	m.WaveformSlots = len(result.Waveforms)
	m.SampleSlots = len(result.Samples)

	m.Tracks = make([]TrackManifest, 0, len(result.Tracks))
	for i, t := range result.Tracks {
		m.Tracks = append(m.Tracks, TrackManifest{
			Index:           i,
			CodeBytes:       len(t.Code),
			InitialWaveform: t.InitialWaveform,
			Slot:            t.Slot,
		})
	}
	return m
}

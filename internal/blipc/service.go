package blipc

// Service is a thin, stateless façade over CompileCommands for callers
// that want a single call site regardless of whether they need the raw
// result or a summarized bundle.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Compile runs a command stream through a fresh Compiler and returns the
// raw result.
func (s *Service) Compile(commands []Command, opts *CompileOptions) (*CompileResult, error) {
	return CompileCommands(commands, opts)
}

// CompileBundle runs a command stream and returns both the summarized
// bundle and the raw result, mirroring the teacher's paired
// bundle/result return shape.
func (s *Service) CompileBundle(commands []Command, opts *CompileOptions) (CompileBundle, *CompileResult, error) {
	res, err := CompileCommands(commands, opts)
	return BuildCompileBundle(res), res, err
}

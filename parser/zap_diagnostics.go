package parser

import "go.uber.org/zap"

// ZapDiagnostics is the production Diagnostics sink, grounded in the
// rest of the retrieval pack's use of go.uber.org/zap for structured
// logging (gitea carries zap as an indirect dependency of its metrics
// stack; SPEC_FULL.md's AMBIENT STACK section wires it here directly as
// the front end's diagnostic sink).
type ZapDiagnostics struct {
	log *zap.SugaredLogger
}

func NewZapDiagnostics(log *zap.Logger) *ZapDiagnostics {
	return &ZapDiagnostics{log: log.Sugar()}
}

func (z *ZapDiagnostics) Errorf(format string, args ...any) {
	z.log.Errorf(format, args...)
}

func (z *ZapDiagnostics) Warnf(format string, args ...any) {
	z.log.Warnf(format, args...)
}

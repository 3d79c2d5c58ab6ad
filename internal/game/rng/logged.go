package rng

import "go.uber.org/zap"

// Logged wraps a Source and logs every draw at debug level, preserving the
// wrapped source's sequence exactly. Useful when diffing two runs of the
// simulation that should be identical.
type Logged struct {
	src    Source
	logger *zap.Logger
}

// NewLogged creates a Logged source drawing from src and logging to logger.
//
// Precondition: src and logger must be non-nil.
func NewLogged(src Source, logger *zap.Logger) *Logged {
	return &Logged{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the bound and result.
func (l *Logged) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("rng draw",
		zap.Int("bound", n),
		zap.Int("value", v),
	)
	return v
}

// Float64 draws from the wrapped source and logs the result.
func (l *Logged) Float64() float64 {
	v := l.src.Float64()
	l.logger.Debug("rng draw",
		zap.Float64("value", v),
	)
	return v
}

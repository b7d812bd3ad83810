package logger

// NopLogger discards everything. Handy default for tests and optional deps.
type NopLogger struct{}

func NewNop() Logger { return NopLogger{} }

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) Fatal(string, ...Field) {}

func (n NopLogger) WithFields(...Field) Logger { return n }

func (NopLogger) Sync() error { return nil }

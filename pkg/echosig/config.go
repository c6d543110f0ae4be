package echosig

import "github.com/devspire/echosig/pkg/echosig/fingerprint"

// Logger is the minimal logging surface the engine depends on. It is
// satisfied by pkg/logger's Logger, but the engine never imports that
// package directly — callers inject whatever implementation they like,
// including a no-op one in tests.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// Config holds the tunable signal-processing and fan-out parameters an
// Engine runs with. The zero value is never used directly; engines are
// always built from defaultConfig plus Options.
type Config struct {
	WindowSize int
	HopSize    int
	PeakCount  int
	MinFreqBin int
	Fan        fingerprint.FanParams
	Logger     Logger
}

func defaultConfig() Config {
	return Config{
		WindowSize: fingerprint.WindowSize,
		HopSize:    fingerprint.HopSize,
		PeakCount:  5,
		MinFreqBin: 10,
		Fan:        fingerprint.DefaultFanParams(),
		Logger:     noopLogger{},
	}
}

// Option configures an Engine at construction time.
type Option func(*Config)

// WithWindowSize overrides the STFT window length, in samples.
func WithWindowSize(n int) Option {
	return func(c *Config) { c.WindowSize = n }
}

// WithHopSize overrides the STFT hop length, in samples.
func WithHopSize(n int) Option {
	return func(c *Config) { c.HopSize = n }
}

// WithPeakCount overrides how many spectral peaks are kept per frame.
func WithPeakCount(n int) Option {
	return func(c *Config) { c.PeakCount = n }
}

// WithMinFreqBin overrides the lowest frequency bin examined when
// picking peaks, filtering out DC and sub-audible rumble.
func WithMinFreqBin(n int) Option {
	return func(c *Config) { c.MinFreqBin = n }
}

// WithFanParams overrides the anchor/target fan-out parameters used
// when generating fingerprints.
func WithFanParams(p fingerprint.FanParams) Option {
	return func(c *Config) { c.Fan = p }
}

// WithLogger injects a Logger. Engines default to a no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

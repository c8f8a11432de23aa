package pprl

import (
	"log/slog"
	"math"

	"github.com/hupe1980/pprl/encoding"
	"github.com/hupe1980/pprl/metricspace"
	"github.com/hupe1980/pprl/record"
	"github.com/hupe1980/pprl/similarity"
)

const (
	// DefaultSimilarityThreshold is the minimum similarity of a candidate match.
	DefaultSimilarityThreshold = 0.75
	// DefaultMinimumSubsetSize keeps every cluster in the result.
	DefaultMinimumSubsetSize = 1
	// DefaultMaximalIntersection bounds the overlap of pivot balls.
	DefaultMaximalIntersection = 0.003
	// DefaultEncodingLength is the Bloom-filter length in bits.
	DefaultEncodingLength = 1024
)

// Config is the resolved configuration shared by both protocols.
//
// Build it with NewConfig; the zero value is not valid.
type Config struct {
	SimilarityThreshold float64
	MinimumSubsetSize   int
	MaximalIntersection float64
	EnhancedPrivacy     bool
	EncodingLength      int
	BlockConcurrency    int

	Oracle          similarity.Oracle
	SecureOracle    similarity.Oracle
	Metric          similarity.Metric
	EncodingHandler record.EncodingHandler
	PivotSelector   metricspace.Selector

	Logger           *Logger
	MetricsCollector MetricsCollector
}

// Option configures a protocol.
type Option func(*Config)

// WithSimilarityThreshold sets the minimum similarity, in (0, 1], for two
// records to be considered a candidate match.
func WithSimilarityThreshold(t float64) Option {
	return func(c *Config) {
		c.SimilarityThreshold = t
	}
}

// WithMinimumSubsetSize drops result clusters with fewer members.
func WithMinimumSubsetSize(n int) Option {
	return func(c *Config) {
		c.MinimumSubsetSize = n
	}
}

// WithMaximalIntersection sets the admissible normalised overlap of two pivot
// balls, in [0, 1].
func WithMaximalIntersection(v float64) Option {
	return func(c *Config) {
		c.MaximalIntersection = v
	}
}

// WithEnhancedPrivacy enables participant-keyed re-encoding before every
// party step. Similarity is then computed by the secure oracle.
func WithEnhancedPrivacy(enabled bool) Option {
	return func(c *Config) {
		c.EnhancedPrivacy = enabled
	}
}

// WithEncodingLength sets the Bloom-filter length used by the secure oracle.
func WithEncodingLength(n int) Option {
	return func(c *Config) {
		c.EncodingLength = n
	}
}

// WithBlockConcurrency processes up to n blocks at once.
//
// Values <= 1 keep the run sequential. Enhanced privacy always runs
// sequentially because re-encoding mutates party state shared by all blocks.
func WithBlockConcurrency(n int) Option {
	return func(c *Config) {
		c.BlockConcurrency = n
	}
}

// WithSimilarityOracle replaces the plain similarity oracle.
//
// If nil is passed, similarity.Plain is used.
func WithSimilarityOracle(o similarity.Oracle) Option {
	return func(c *Config) {
		c.Oracle = o
	}
}

// WithSecureOracle replaces the oracle used under enhanced privacy.
//
// If nil is passed, similarity.Secure over the encoding length is used.
func WithSecureOracle(o similarity.Oracle) Option {
	return func(c *Config) {
		c.SecureOracle = o
	}
}

// WithMetric replaces the cluster distance used by the linking protocol.
func WithMetric(m similarity.Metric) Option {
	return func(c *Config) {
		c.Metric = m
	}
}

// WithEncodingHandler replaces the re-encoder used under enhanced privacy.
func WithEncodingHandler(h record.EncodingHandler) Option {
	return func(c *Config) {
		c.EncodingHandler = h
	}
}

// WithPivotSelector chooses the initial pivots of the linking protocol.
//
// Defaults to metricspace.FarthestFirst(0), i.e. ceil(sqrt(n)) pivots.
func WithPivotSelector(s metricspace.Selector) Option {
	return func(c *Config) {
		c.PivotSelector = s
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(c *Config) {
		if l == nil {
			l = NoopLogger()
		}
		c.Logger = l
	}
}

// WithLogLevel installs a text logger at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(c *Config) {
		c.Logger = NewTextLogger(level)
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(c *Config) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		c.MetricsCollector = mc
	}
}

// NewConfig applies opts over the defaults and validates the result.
//
// Every returned error is a *ConfigError.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MinimumSubsetSize:   DefaultMinimumSubsetSize,
		MaximalIntersection: DefaultMaximalIntersection,
		EncodingLength:      DefaultEncodingLength,
		BlockConcurrency:    1,
		Logger:              NoopLogger(),
		MetricsCollector:    NoopMetricsCollector{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	if c.Oracle == nil {
		c.Oracle = similarity.Plain{}
	}

	if c.SecureOracle == nil {
		c.SecureOracle = similarity.Secure{EncodingLength: uint(c.EncodingLength)}
	}

	if c.Metric == nil {
		c.Metric = similarity.AverageHamming{}
	}

	if c.EncodingHandler == nil {
		c.EncodingHandler = encoding.NewPermutationHandler("")
	}

	if c.PivotSelector == nil {
		c.PivotSelector = metricspace.FarthestFirst(0)
	}

	return c, nil
}

func (c *Config) validate() error {
	if math.IsNaN(c.SimilarityThreshold) || c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return &ConfigError{Field: "similarity_threshold", Value: c.SimilarityThreshold}
	}

	if c.MinimumSubsetSize < 1 {
		return &ConfigError{Field: "minimum_subset_size", Value: c.MinimumSubsetSize}
	}

	if math.IsNaN(c.MaximalIntersection) || c.MaximalIntersection < 0 || c.MaximalIntersection > 1 {
		return &ConfigError{Field: "maximal_intersection", Value: c.MaximalIntersection}
	}

	if c.EncodingLength < 1 {
		return &ConfigError{Field: "encoding_length", Value: c.EncodingLength}
	}

	return nil
}

// Similarity returns the oracle for the current privacy mode.
func (c *Config) Similarity() similarity.Oracle {
	if c.EnhancedPrivacy {
		return c.SecureOracle
	}
	return c.Oracle
}

// Sequential reports whether blocks must be processed one at a time.
func (c *Config) Sequential() bool {
	return c.EnhancedPrivacy || c.BlockConcurrency <= 1
}

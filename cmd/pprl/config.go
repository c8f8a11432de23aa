package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/pprl"
	"github.com/hupe1980/pprl/encoding"
	"github.com/hupe1980/pprl/metricspace"
	"github.com/hupe1980/pprl/snapshot"
	"gopkg.in/yaml.v3"
)

// RunConfig is the YAML run configuration.
type RunConfig struct {
	// Parties lists party dataset files in arrival order. Relative paths are
	// resolved against the directory of the configuration file.
	Parties  []string       `yaml:"parties"`
	Protocol ProtocolConfig `yaml:"protocol"`
	Output   OutputConfig   `yaml:"output"`
}

// ProtocolConfig holds protocol parameters. Omitted values keep the library
// defaults; explicit values, zero included, are validated by the library.
type ProtocolConfig struct {
	SimilarityThreshold *float64 `yaml:"similarity_threshold"`
	MinimumSubsetSize   *int     `yaml:"minimum_subset_size"`
	MaximalIntersection *float64 `yaml:"maximal_intersection"`
	EnhancedPrivacy     bool     `yaml:"enhanced_privacy"`
	EncodingLength      *int     `yaml:"encoding_length"`
	BlockConcurrency    int      `yaml:"block_concurrency"`
	// Secret keys the re-encoding permutation under enhanced privacy.
	Secret string `yaml:"secret"`
	// Pivots is the number of initial pivots; 0 selects ceil(sqrt(n)).
	Pivots int `yaml:"pivots"`
	// PivotStrategy is one of "farthest" (default), "first" or "random".
	PivotStrategy string `yaml:"pivot_strategy"`
	Seed          int64  `yaml:"seed"`
}

// OutputConfig selects where the result snapshot is written.
type OutputConfig struct {
	// Type is one of "local" (default), "s3" or "minio".
	Type        string `yaml:"type"`
	Path        string `yaml:"path"`
	Name        string `yaml:"name"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	AccessKey   string `yaml:"access_key"`
	SecretKey   string `yaml:"secret_key"`
	UseSSL      bool   `yaml:"use_ssl"`
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`
}

// LoadRunConfig reads and validates a run configuration.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &RunConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, p := range cfg.Parties {
		if !filepath.IsAbs(p) {
			cfg.Parties[i] = filepath.Join(base, p)
		}
	}
	if cfg.Output.Type == "" || cfg.Output.Type == "local" {
		cfg.Output.Type = "local"
		if cfg.Output.Path == "" {
			cfg.Output.Path = "."
		}
		if !filepath.IsAbs(cfg.Output.Path) {
			cfg.Output.Path = filepath.Join(base, cfg.Output.Path)
		}
	}
	if cfg.Output.Codec == "" {
		cfg.Output.Codec = "go-json"
	}
	if cfg.Output.Compression == "" {
		cfg.Output.Compression = "zstd"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *RunConfig) validate() error {
	if len(c.Parties) == 0 {
		return fmt.Errorf("config: no parties")
	}
	switch c.Output.Type {
	case "local":
	case "s3", "minio":
		if c.Output.Bucket == "" {
			return fmt.Errorf("config: output type %s requires a bucket", c.Output.Type)
		}
		if c.Output.Type == "minio" && c.Output.Endpoint == "" {
			return fmt.Errorf("config: output type minio requires an endpoint")
		}
	default:
		return fmt.Errorf("config: unknown output type %q", c.Output.Type)
	}
	if _, err := snapshot.ParseCompression(c.Output.Compression); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Protocol.selector(); err != nil {
		return err
	}
	return nil
}

func (p ProtocolConfig) selector() (metricspace.Selector, error) {
	switch p.PivotStrategy {
	case "", "farthest":
		return metricspace.FarthestFirst(p.Pivots), nil
	case "first":
		return metricspace.FirstN(p.Pivots), nil
	case "random":
		return metricspace.Random(p.Pivots, p.Seed), nil
	default:
		return nil, fmt.Errorf("config: unknown pivot strategy %q", p.PivotStrategy)
	}
}

// Options converts the protocol section into library options.
func (p ProtocolConfig) Options() []pprl.Option {
	var opts []pprl.Option
	if p.SimilarityThreshold != nil {
		opts = append(opts, pprl.WithSimilarityThreshold(*p.SimilarityThreshold))
	}
	if p.MinimumSubsetSize != nil {
		opts = append(opts, pprl.WithMinimumSubsetSize(*p.MinimumSubsetSize))
	}
	if p.MaximalIntersection != nil {
		opts = append(opts, pprl.WithMaximalIntersection(*p.MaximalIntersection))
	}
	if p.EncodingLength != nil {
		opts = append(opts, pprl.WithEncodingLength(*p.EncodingLength))
	}
	if p.BlockConcurrency != 0 {
		opts = append(opts, pprl.WithBlockConcurrency(p.BlockConcurrency))
	}
	if sel, err := p.selector(); err == nil {
		opts = append(opts, pprl.WithPivotSelector(sel))
	}
	opts = append(opts,
		pprl.WithEnhancedPrivacy(p.EnhancedPrivacy),
		pprl.WithEncodingHandler(encoding.NewPermutationHandler(p.Secret)),
	)
	return opts
}

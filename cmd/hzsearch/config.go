package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/curioloop/linesearch/hagerzhang"
	"gopkg.in/yaml.v3"
)

// Config describes a set of independent searches.
//
//	workers: 4
//	params:
//	  max_iterations: 100
//	problems:
//	  - name: quad
//	    problem: quadratic
//	    step: 0.1
//	    batch: 3
type Config struct {
	// Workers bounds the number of searches running at once, 0 means one per CPU.
	Workers int `yaml:"workers"`
	// Params applies to every problem unless overridden by the problem itself.
	Params ParamsConfig `yaml:"params"`
	Jobs   []Job        `yaml:"problems"`
}

// ParamsConfig holds optional overrides of hagerzhang.Params.
type ParamsConfig struct {
	Epsilon       *float64 `yaml:"epsilon"`
	Gamma         *float64 `yaml:"gamma"`
	Rho           *float64 `yaml:"rho"`
	Delta         *float64 `yaml:"delta"`
	Sigma         *float64 `yaml:"sigma"`
	Shrink        *float64 `yaml:"shrink"`
	MaxIterations *int     `yaml:"max_iterations"`
}

// Job is one batched search over a built-in problem.
type Job struct {
	Name    string       `yaml:"name"`
	Problem string       `yaml:"problem"`
	Step    float64      `yaml:"step"`
	Batch   int          `yaml:"batch"`
	Params  ParamsConfig `yaml:"params"`

	params hagerzhang.Params
}

func (pc ParamsConfig) apply(p hagerzhang.Params) hagerzhang.Params {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Epsilon, pc.Epsilon)
	set(&p.Gamma, pc.Gamma)
	set(&p.Rho, pc.Rho)
	set(&p.Delta, pc.Delta)
	set(&p.Sigma, pc.Sigma)
	set(&p.Shrink, pc.Shrink)
	if pc.MaxIterations != nil {
		p.MaxIterations = *pc.MaxIterations
	}
	return p
}

// LoadConfig reads a YAML config, fills defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML config, rejecting unknown fields.
func ParseConfig(data []byte) (*Config, error) {
	config := new(Config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	base := c.Params.apply(hagerzhang.DefaultParams())
	for i := range c.Jobs {
		job := &c.Jobs[i]
		if job.Name == "" {
			job.Name = fmt.Sprintf("%s-%d", job.Problem, i)
		}
		if job.Step == 0 {
			job.Step = 1
		}
		if job.Batch == 0 {
			job.Batch = 1
		}
		job.params = job.Params.apply(base)
	}
}

// Validate checks the problems; search parameters are checked when each search starts.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", c.Workers)
	}
	if len(c.Jobs) == 0 {
		return errors.New("no problems configured")
	}
	seen := make(map[string]bool, len(c.Jobs))
	for _, job := range c.Jobs {
		switch {
		case seen[job.Name]:
			return fmt.Errorf("duplicate problem name %q", job.Name)
		case !slices.Contains(problemNames, job.Problem):
			return fmt.Errorf("%s: unknown problem %q", job.Name, job.Problem)
		case !(job.Step > 0):
			return fmt.Errorf("%s: step must be positive", job.Name)
		case job.Batch < 0:
			return fmt.Errorf("%s: batch must not be negative", job.Name)
		}
		seen[job.Name] = true
	}
	return nil
}

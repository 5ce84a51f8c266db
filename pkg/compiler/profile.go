package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

var ErrInvalidProfile = errors.New("invalid compiler profile")

// Profile pins the compiler used for every network
type Profile struct {
	Name      string    `yaml:"name" json:"name"`
	Version   string    `yaml:"version" json:"version"`
	Optimizer Optimizer `yaml:"optimizer" json:"optimizer"`
}

// Optimizer controls bytecode size against runtime gas cost
type Optimizer struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Runs    int  `yaml:"runs" json:"runs"`
}

// Default returns solc 0.8.4 with the optimizer on at 200 runs
func Default() Profile {
	return Profile{
		Name:    "solc",
		Version: "0.8.4",
		Optimizer: Optimizer{
			Enabled: true,
			Runs:    200,
		},
	}
}

// Validate checks the name, the version string and the optimizer runs
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty compiler name", ErrInvalidProfile)
	}
	if _, err := semver.Parse(p.Version); err != nil {
		return fmt.Errorf("%w: version %q: %v", ErrInvalidProfile, p.Version, err)
	}
	if p.Optimizer.Enabled && p.Optimizer.Runs < 1 {
		return fmt.Errorf("%w: optimizer enabled with %d runs", ErrInvalidProfile, p.Optimizer.Runs)
	}
	return nil
}

// SatisfiedBy reports whether an installed compiler version matches the
// pinned one. Build metadata such as "+commit.c7e474f2" is ignored.
func (p Profile) SatisfiedBy(installed string) (bool, error) {
	want, err := semver.Parse(p.Version)
	if err != nil {
		return false, fmt.Errorf("%w: version %q: %v", ErrInvalidProfile, p.Version, err)
	}
	got, err := semver.ParseTolerant(strings.TrimPrefix(installed, "v"))
	if err != nil {
		return false, fmt.Errorf("failed to parse compiler version %q: %w", installed, err)
	}
	got.Build = nil
	return got.Equals(want), nil
}

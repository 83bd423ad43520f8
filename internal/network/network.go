// Package network describes the protocol limits a transaction must respect
// on a given network.
package network

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

const (
	// DefaultName is the profile used when none is selected.
	DefaultName = "testnet2"

	// SupportedProtocols is the range of protocol versions the checker
	// understands.
	SupportedProtocols = ">= 1.0.0, < 3.0.0"
)

// Profile holds the limits of one network. It can be decoded from TOML:
//
//	name = "devnet"
//	version = "2.1.0"
//	max-transitions = 4
//	max-input-records = 2
//	max-output-records = 2
type Profile struct {
	Name             string `toml:"name"`
	Version          string `toml:"version"`
	MaxTransitions   int    `toml:"max-transitions"`
	MaxInputRecords  int    `toml:"max-input-records"`
	MaxOutputRecords int    `toml:"max-output-records"`
}

var builtin = map[string]Profile{
	"testnet1": {
		Name:             "testnet1",
		Version:          "1.0.0",
		MaxTransitions:   255,
		MaxInputRecords:  2,
		MaxOutputRecords: 2,
	},
	"testnet2": {
		Name:             "testnet2",
		Version:          "2.0.0",
		MaxTransitions:   255,
		MaxInputRecords:  2,
		MaxOutputRecords: 2,
	},
}

// Builtin returns the built-in profiles sorted by name.
func Builtin() []Profile {
	out := make([]Profile, 0, len(builtin))
	for _, p := range builtin {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the built-in profile with the given name.
func Lookup(name string) (Profile, error) {
	p, ok := builtin[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown network %q", name)
	}
	return p, nil
}

// Default returns the default built-in profile.
func Default() Profile {
	return builtin[DefaultName]
}

// Decode parses a profile from TOML and validates it.
func Decode(data string) (Profile, error) {
	var p Profile
	if _, err := toml.Decode(data, &p); err != nil {
		return Profile{}, errors.Wrap(err, "decode network profile")
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// LoadFile reads a profile from a TOML file.
func LoadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, errors.Wrapf(err, "read network profile %s", path)
	}
	p, err := Decode(string(data))
	if err != nil {
		return Profile{}, errors.Wrapf(err, "load %s", path)
	}
	return p, nil
}

// Encode writes p as TOML.
func (p Profile) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return "", errors.Wrap(err, "encode network profile")
	}
	return buf.String(), nil
}

// Validate returns an error if the profile is incomplete or speaks a
// protocol version outside SupportedProtocols.
func (p Profile) Validate() error {
	if p.Name == "" {
		return errors.New("network profile: name required")
	}
	if p.MaxTransitions <= 0 {
		return errors.Errorf("network profile %s: max-transitions must be positive", p.Name)
	}
	if p.MaxInputRecords < 0 || p.MaxOutputRecords < 0 {
		return errors.Errorf("network profile %s: record limits must not be negative", p.Name)
	}
	ok, err := p.Satisfies(SupportedProtocols)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("network profile %s: protocol %s is outside %s", p.Name, p.Version, SupportedProtocols)
	}
	return nil
}

// ProtocolVersion parses the profile's protocol version.
func (p Profile) ProtocolVersion() (*semver.Version, error) {
	v, err := semver.NewVersion(p.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "network profile %s: invalid version %q", p.Name, p.Version)
	}
	return v, nil
}

// Satisfies reports whether the profile's protocol version matches the
// constraint expression.
func (p Profile) Satisfies(constraint string) (bool, error) {
	v, err := p.ProtocolVersion()
	if err != nil {
		return false, err
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.Wrapf(err, "invalid constraint %q", constraint)
	}
	return c.Check(v), nil
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (protocol %s): %d transitions, %d input records, %d output records",
		p.Name, p.Version, p.MaxTransitions, p.MaxInputRecords, p.MaxOutputRecords)
}

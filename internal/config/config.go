// Package config loads the engine's runtime configuration and named
// move profiles from YAML via viper, the way
// reinforcement.FromYaml loads training config in the teacher repo.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"motionctl/internal/trajectory"
)

// EngineConfig is the top-level on-disk configuration for the motion
// control engine.
type EngineConfig struct {
	AxisCount  int     `yaml:"axis_count"`
	TotalSteps int     `yaml:"total_steps"`
	SampleTime float64 `yaml:"sample_time"`
	PlantMass  float64 `yaml:"plant_mass"`
	Verbose    bool    `yaml:"verbose"`

	TCPPort    int    `yaml:"tcp_port"`
	StatusPort int    `yaml:"status_port"`
	CSVPath    string `yaml:"csv_path"`

	DefaultProfile string `yaml:"default_profile"`
}

// Profile is one named trajectory.Input preset, loaded from
// profiles.yaml. The profile named by EngineConfig.DefaultProfile
// becomes the engine's default planner input, which command 5 falls
// back to for zero-valued parameters; command 5 cannot select a
// profile by name.
type Profile struct {
	Name     string  `yaml:"name"`
	Distance float64 `yaml:"distance"`
	VMax     float64 `yaml:"vmax"`
	AMax     float64 `yaml:"amax"`
	JMax     float64 `yaml:"jmax"`
	DMax     float64 `yaml:"dmax"`
}

// ProfileSet is the parsed contents of profiles.yaml: a flat list of
// named move profiles.
type ProfileSet struct {
	Profiles []Profile `yaml:"profiles"`
}

// Lookup returns the named profile's trajectory.Input at the given
// sample time, or false if no profile with that name exists.
func (ps *ProfileSet) Lookup(name string, sampleTime float64) (trajectory.Input, bool) {
	for _, p := range ps.Profiles {
		if p.Name == name {
			return trajectory.Input{
				Distance:   p.Distance,
				VMax:       p.VMax,
				AMax:       p.AMax,
				JMax:       p.JMax,
				DMax:       p.DMax,
				SampleTime: sampleTime,
			}, true
		}
	}
	return trajectory.Input{}, false
}

// Default returns a conservative baseline configuration matching the
// original firmware's hard-coded constants: two axes, 1ms sample time,
// 1001 steps, 16kg plant mass.
func Default() EngineConfig {
	return EngineConfig{
		AxisCount:  2,
		TotalSteps: 1001,
		SampleTime: 0.001,
		PlantMass:  16.0,
		TCPPort:    8081,
		StatusPort: 8082,
		CSVPath:    "telemetry.csv",
	}
}

// Load reads an EngineConfig from the YAML file at path via viper,
// falling back to Default for any field the file omits.
func Load(path string) (EngineConfig, error) {
	cfg := Default()

	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return EngineConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := vp.Unmarshal(&raw); err != nil {
		return EngineConfig{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	buf, err := yaml.Marshal(raw)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("config: re-marshal %s: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadProfiles parses a profiles.yaml file of named move profiles.
func LoadProfiles(path string) (*ProfileSet, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := vp.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	buf, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("config: re-marshal %s: %w", path, err)
	}

	ps := &ProfileSet{}
	if err := yaml.Unmarshal(buf, ps); err != nil {
		return nil, fmt.Errorf("config: parse profiles %s: %w", path, err)
	}
	return ps, nil
}

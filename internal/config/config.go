// Package config loads the JSON map-config file described in spec §6 into
// plain structs, and builds the model.Map catalog and session.Defaults the
// rest of the server runs on.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level JSON document.
type Config struct {
	LootGenerator      LootGeneratorConfig `json:"lootGeneratorConfig"`
	DefaultDogSpeed    float64             `json:"defaultDogSpeed"`
	DefaultBagCapacity int                 `json:"defaultBagCapacity"`
	DogRetirementTime  float64             `json:"dogRetirementTime"` // seconds
	Maps               []MapConfig         `json:"maps"`
}

// LootGeneratorConfig is the global loot-generation law parameters.
type LootGeneratorConfig struct {
	Period      float64 `json:"period"`
	Probability float64 `json:"probability"`
}

// MapConfig describes one map's static topology.
type MapConfig struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	DogSpeed    float64          `json:"dogSpeed,omitempty"`
	BagCapacity int              `json:"bagCapacity,omitempty"`
	LootTypes   []map[string]any `json:"lootTypes"`
	Roads       []RoadConfig     `json:"roads"`
	Buildings   []BuildingConfig `json:"buildings"`
	Offices     []OfficeConfig   `json:"offices"`
}

// RoadConfig is one road segment; exactly one of X1/Y1 must be set,
// selecting a horizontal or vertical road respectively (spec §6).
type RoadConfig struct {
	X0 float64  `json:"x0"`
	Y0 float64  `json:"y0"`
	X1 *float64 `json:"x1,omitempty"`
	Y1 *float64 `json:"y1,omitempty"`
}

// BuildingConfig is a client-rendered obstacle rectangle.
type BuildingConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// OfficeConfig places a client-facing office marker and its Base.
type OfficeConfig struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

// Load reads and parses the config file at path. Any error is fatal at
// startup, per spec §7 ("Map-config parse: fatal at startup").
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the structural requirements spec §6 lists explicitly.
func (c *Config) Validate() error {
	if len(c.Maps) == 0 {
		return fmt.Errorf("no maps declared")
	}
	seen := make(map[string]bool, len(c.Maps))
	for i, m := range c.Maps {
		if m.ID == "" {
			return fmt.Errorf("maps[%d]: id is required", i)
		}
		if seen[m.ID] {
			return fmt.Errorf("maps[%d]: duplicate map id %q", i, m.ID)
		}
		seen[m.ID] = true
		if len(m.LootTypes) == 0 {
			return fmt.Errorf("map %q: lootTypes must not be empty", m.ID)
		}
		for j, r := range m.Roads {
			if (r.X1 == nil) == (r.Y1 == nil) {
				return fmt.Errorf("map %q: roads[%d]: exactly one of x1/y1 must be set", m.ID, j)
			}
		}
	}
	return nil
}

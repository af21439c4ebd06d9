package config

import (
	"fmt"

	"dogpark-server/internal/geom"
	"dogpark-server/internal/model"
	"dogpark-server/internal/session"
)

// BuildMaps converts every MapConfig into a model.Map.
func (c *Config) BuildMaps() ([]*model.Map, error) {
	maps := make([]*model.Map, 0, len(c.Maps))
	for _, mc := range c.Maps {
		m, err := buildMap(mc)
		if err != nil {
			return nil, fmt.Errorf("map %q: %w", mc.ID, err)
		}
		maps = append(maps, m)
	}
	return maps, nil
}

func buildMap(mc MapConfig) (*model.Map, error) {
	roads := make([]model.Road, 0, len(mc.Roads))
	for _, rc := range mc.Roads {
		end := geom.Point{X: rc.X0, Y: rc.Y0}
		if rc.X1 != nil {
			end.X = *rc.X1
		}
		if rc.Y1 != nil {
			end.Y = *rc.Y1
		}
		roads = append(roads, model.Road{
			Start: geom.Point{X: rc.X0, Y: rc.Y0},
			End:   end,
		})
	}

	buildings := make([]model.Building, 0, len(mc.Buildings))
	for _, bc := range mc.Buildings {
		buildings = append(buildings, model.Building{X: bc.X, Y: bc.Y, W: bc.W, H: bc.H})
	}

	offices := make([]model.Office, 0, len(mc.Offices))
	for _, oc := range mc.Offices {
		offices = append(offices, model.Office{
			ID: oc.ID, X: oc.X, Y: oc.Y,
			OffsetX: oc.OffsetX, OffsetY: oc.OffsetY,
		})
	}

	lootTypes := make([]model.LootType, 0, len(mc.LootTypes))
	for i, lt := range mc.LootTypes {
		value, err := lootValue(lt)
		if err != nil {
			return nil, fmt.Errorf("lootTypes[%d]: %w", i, err)
		}
		lootTypes = append(lootTypes, model.LootType{Value: value, Raw: lt})
	}

	return model.NewMap(mc.ID, mc.Name, mc.DogSpeed, mc.BagCapacity, roads, buildings, offices, lootTypes)
}

func lootValue(raw map[string]any) (int, error) {
	v, ok := raw["value"]
	if !ok {
		return 0, fmt.Errorf("missing required \"value\" field")
	}
	f, ok := v.(float64) // encoding/json decodes all JSON numbers as float64
	if !ok {
		return 0, fmt.Errorf("\"value\" must be a number, got %T", v)
	}
	return int(f), nil
}

// Defaults builds the global fallbacks used when a map omits an override.
func (c *Config) Defaults() session.Defaults {
	return session.Defaults{
		DogSpeed:        c.DefaultDogSpeed,
		BagCapacity:     c.DefaultBagCapacity,
		LootPeriod:      c.LootGenerator.Period,
		LootProbability: c.LootGenerator.Probability,
		MaxIdleMs:       c.DogRetirementTime * 1000,
	}
}

package httpapi

import (
	"fmt"

	"dogpark-server/internal/model"
)

// MapSummary is one entry of the GET /api/v1/maps response.
type MapSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MapDetail is the GET /api/v1/maps/{id} response.
type MapDetail struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Roads       []RoadDTO      `json:"roads"`
	Buildings   []BuildingDTO  `json:"buildings"`
	Offices     []OfficeDTO    `json:"offices"`
	LootTypes   []map[string]any `json:"lootTypes"`
}

type RoadDTO struct {
	X0 float64  `json:"x0"`
	Y0 float64  `json:"y0"`
	X1 *float64 `json:"x1,omitempty"`
	Y1 *float64 `json:"y1,omitempty"`
}

type BuildingDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type OfficeDTO struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

func toMapDetail(m *model.Map) MapDetail {
	roads := make([]RoadDTO, 0, len(m.Roads))
	for _, r := range m.Roads {
		dto := RoadDTO{X0: r.Start.X, Y0: r.Start.Y}
		if r.Horizontal() {
			x1 := r.End.X
			dto.X1 = &x1
		} else {
			y1 := r.End.Y
			dto.Y1 = &y1
		}
		roads = append(roads, dto)
	}
	buildings := make([]BuildingDTO, 0, len(m.Buildings))
	for _, b := range m.Buildings {
		buildings = append(buildings, BuildingDTO{X: b.X, Y: b.Y, W: b.W, H: b.H})
	}
	offices := make([]OfficeDTO, 0, len(m.Offices))
	for _, o := range m.Offices {
		offices = append(offices, OfficeDTO{ID: o.ID, X: o.X, Y: o.Y, OffsetX: o.OffsetX, OffsetY: o.OffsetY})
	}
	lootTypes := make([]map[string]any, 0, len(m.LootTypes))
	for _, lt := range m.LootTypes {
		lootTypes = append(lootTypes, lt.Raw)
	}
	return MapDetail{ID: m.ID, Name: m.Name, Roads: roads, Buildings: buildings, Offices: offices, LootTypes: lootTypes}
}

// JoinRequest is the POST /api/v1/game/join body.
type JoinRequest struct {
	UserName string `json:"userName"`
	MapID    string `json:"mapId"`
}

func (r JoinRequest) Validate() error {
	if r.UserName == "" {
		return fmt.Errorf("userName must not be empty")
	}
	if r.MapID == "" {
		return fmt.Errorf("mapId must not be empty")
	}
	return nil
}

// JoinResponse is the POST /api/v1/game/join response.
type JoinResponse struct {
	AuthToken string `json:"authToken"`
	PlayerID  uint64 `json:"playerId"`
}

// PlayerSummary is one entry of GET /api/v1/game/players.
type PlayerSummary struct {
	Name string `json:"name"`
}

// DogStateDTO is one entry of the "players" map in GET /api/v1/game/state.
type DogStateDTO struct {
	Pos      [2]float64 `json:"pos"`
	Speed    [2]float64 `json:"speed"`
	Dir      string     `json:"dir"`
	Bag      []BagEntryDTO `json:"bag"`
	Score    int        `json:"score"`
	IdleFor  *float64   `json:"idleFor,omitempty"`
	BagCap   *int       `json:"bagCapacity,omitempty"`
}

type BagEntryDTO struct {
	ID   uint64 `json:"id"`
	Type int    `json:"type"`
}

// LostObjectDTO is one entry of the "lostObjects" map in GET
// /api/v1/game/state.
type LostObjectDTO struct {
	Type int        `json:"type"`
	Pos  [2]float64 `json:"pos"`
}

// StateResponse is the GET /api/v1/game/state response.
type StateResponse struct {
	Players     map[string]DogStateDTO   `json:"players"`
	LostObjects map[string]LostObjectDTO `json:"lostObjects"`
}

// ActionRequest is the POST /api/v1/game/player/action body.
type ActionRequest struct {
	Move string `json:"move"`
}

func (r ActionRequest) Validate() error {
	switch r.Move {
	case "", "L", "R", "U", "D":
		return nil
	default:
		return fmt.Errorf("move must be one of L, R, U, D or empty, got %q", r.Move)
	}
}

// TickRequest is the POST /api/v1/game/tick body.
type TickRequest struct {
	TimeDelta int `json:"timeDelta"`
}

func (r TickRequest) Validate() error {
	if r.TimeDelta <= 0 {
		return fmt.Errorf("timeDelta must be a positive number of milliseconds")
	}
	return nil
}

// RecordDTO is one entry of GET /api/v1/game/records.
type RecordDTO struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	PlayTime float64 `json:"playTime"` // seconds
}

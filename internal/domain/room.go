package domain

import "time"

type RoomType string

const (
	RoomSingle RoomType = "SINGLE"
	RoomDouble RoomType = "DOUBLE"
	RoomSuite  RoomType = "SUITE"
	RoomFamily RoomType = "FAMILY"
	RoomDeluxe RoomType = "DELUXE"
)

// RoomTypes lists every room type the rate table must price.
var RoomTypes = []RoomType{RoomSingle, RoomDouble, RoomSuite, RoomFamily, RoomDeluxe}

func (t RoomType) IsValid() bool {
	for _, rt := range RoomTypes {
		if rt == t {
			return true
		}
	}
	return false
}

type ClimateVariant string

const (
	ClimateVentilated     ClimateVariant = "VENTILATED"
	ClimateAirConditioned ClimateVariant = "AIR_CONDITIONED"
)

func (c ClimateVariant) IsValid() bool {
	return c == ClimateVentilated || c == ClimateAirConditioned
}

type Room struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	RoomType  RoomType       `json:"room_type"`
	Climate   ClimateVariant `json:"climate"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

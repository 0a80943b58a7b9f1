package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// LocationKind enumerates the places an entity can be during a session.
type LocationKind int

const (
	LocationUnplaced LocationKind = iota
	LocationInRoom
	LocationInContainer
	LocationInInventory
)

// Location is a tagged variant describing where an entity currently is.
// The zero value is Unplaced.
type Location struct {
	Kind        LocationKind
	RoomID      uuid.UUID
	ContainerID uuid.UUID
}

func Unplaced() Location           { return Location{Kind: LocationUnplaced} }
func InInventory() Location        { return Location{Kind: LocationInInventory} }
func InRoom(id uuid.UUID) Location { return Location{Kind: LocationInRoom, RoomID: id} }
func InContainer(id uuid.UUID) Location {
	return Location{Kind: LocationInContainer, ContainerID: id}
}

func (l Location) IsInRoom(roomID uuid.UUID) bool {
	return l.Kind == LocationInRoom && l.RoomID == roomID
}

func (l Location) String() string {
	switch l.Kind {
	case LocationInInventory:
		return "inventory"
	case LocationInRoom:
		return fmt.Sprintf("room:%s", l.RoomID)
	case LocationInContainer:
		return fmt.Sprintf("container:%s", l.ContainerID)
	default:
		return "unplaced"
	}
}

// The save-file wire shape is either the string "inventory" or a one-key
// object {"room_id": "..."} / {"container_id": "..."}. Unplaced entities are
// never written; they are simply absent from the location map.

type locationObject struct {
	RoomID      *uuid.UUID `json:"room_id,omitempty"`
	ContainerID *uuid.UUID `json:"container_id,omitempty"`
}

func (l Location) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case LocationInInventory:
		return json.Marshal("inventory")
	case LocationInRoom:
		return json.Marshal(locationObject{RoomID: &l.RoomID})
	case LocationInContainer:
		return json.Marshal(locationObject{ContainerID: &l.ContainerID})
	default:
		return json.Marshal(nil)
	}
}

func (l *Location) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "inventory" {
			*l = InInventory()
			return nil
		}
		return fmt.Errorf("unknown location string %q", s)
	}

	var obj locationObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unknown location shape: %w", err)
	}
	switch {
	case obj.RoomID != nil:
		*l = InRoom(*obj.RoomID)
	case obj.ContainerID != nil:
		*l = InContainer(*obj.ContainerID)
	default:
		*l = Unplaced()
	}
	return nil
}

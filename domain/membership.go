package domain

import "time"

// RoomName is a sanitized, case-sensitive room key.
// A room exists only while at least one Membership references it; there is no
// stored room record anywhere in the system.
type RoomName string

// Membership ties a live connection to an identity, at most one room, and a
// liveness timestamp. The registry owns every Membership row exclusively.
type Membership struct {
	Identity     Identity
	Room         RoomName // empty while the connection is in no room
	LastActiveAt time.Time
}

func (m Membership) InRoom() bool {
	return m.Room != ""
}

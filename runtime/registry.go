// Package runtime hosts the connection registry, the relay pipeline, and the
// presence broadcaster. It orchestrates the system without containing domain
// validation rules.
package runtime

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
)

// session is one registry row: the Membership plus the connection's sink.
// seq preserves accept order so fan-outs are deterministic.
type session struct {
	membership domain.Membership
	sink       contract.EventSink
	seq        uint64
}

// Registry is the single source of truth for who is connected and where.
// It exclusively owns every Membership row; rooms are derived from the rows
// on demand and never stored. All access is serialized behind one RWMutex.
type Registry struct {
	mu       sync.RWMutex
	log      *slog.Logger
	sessions map[string]*session
	nextSeq  uint64
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:      log,
		sessions: make(map[string]*session),
	}
}

// Attach creates the Membership for a freshly accepted connection, roomless
// and live as of now. A duplicate connection id should not occur given the
// transport generates them; the row is logged and overwritten when it does.
func (r *Registry) Attach(connID string, identity domain.Identity, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[connID]; ok {
		r.log.Warn(fmt.Sprintf("Duplicate connection %s, overwriting stale row", connID))
	}
	r.nextSeq++
	r.sessions[connID] = &session{
		membership: domain.Membership{
			Identity:     identity,
			LastActiveAt: time.Now().UTC(),
		},
		sink: sink,
		seq:  r.nextSeq,
	}
}

// SetRoom swaps the connection's room in one atomic step; a Membership never
// names two rooms, even transiently.
func (r *Registry) SetRoom(connID string, room domain.RoomName) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return errors.ErrUnknownConnection
	}
	s.membership.Room = room
	s.membership.LastActiveAt = time.Now().UTC()
	return nil
}

func (r *Registry) RoomOf(connID string) (domain.RoomName, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return "", false
	}
	return s.membership.Room, true
}

// Touch records activity. Pings arriving after disconnect are benign no-ops.
func (r *Registry) Touch(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[connID]; ok {
		s.membership.LastActiveAt = time.Now().UTC()
	}
}

// Detach removes the Membership and returns the prior room so the caller can
// run leave side effects. Idempotent: a second call reports not-attached.
func (r *Registry) Detach(connID string) (domain.RoomName, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return "", false
	}
	delete(r.sessions, connID)
	return s.membership.Room, true
}

// MembersOf returns a sorted snapshot of display names currently in the room.
func (r *Registry) MembersOf(room domain.RoomName) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []string
	for _, s := range r.sessions {
		if s.membership.Room == room && room != "" {
			members = append(members, s.membership.Identity.DisplayName)
		}
	}
	sort.Strings(members)
	return members
}

// ActiveRooms returns the distinct rooms referenced by at least one
// Membership. An emptied room disappears here without any deletion step.
func (r *Registry) ActiveRooms() []domain.RoomName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[domain.RoomName]struct{})
	for _, s := range r.sessions {
		if s.membership.InRoom() {
			seen[s.membership.Room] = struct{}{}
		}
	}
	rooms := make([]domain.RoomName, 0, len(seen))
	for room := range seen {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })
	return rooms
}

func (r *Registry) SinkFor(connID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return nil, false
	}
	return s.sink, true
}

func (r *Registry) SinksForRoom(room domain.RoomName) []contract.EventSink {
	return r.SinksForRoomExcept(room, "")
}

// SinksForRoomExcept snapshots the sinks of every room member but one,
// used for "X joined" notices and activity pings that exclude their origin.
// Sinks come back in accept order.
func (r *Registry) SinksForRoomExcept(room domain.RoomName, exceptConnID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if room == "" {
		return nil
	}
	var rows []*session
	for connID, s := range r.sessions {
		if connID == exceptConnID {
			continue
		}
		if s.membership.Room == room {
			rows = append(rows, s)
		}
	}
	return sinksInAcceptOrder(rows)
}

// AllSinks snapshots every connected client, roomless ones included; the
// room directory is global.
func (r *Registry) AllSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		rows = append(rows, s)
	}
	return sinksInAcceptOrder(rows)
}

func sinksInAcceptOrder(rows []*session) []contract.EventSink {
	if len(rows) == 0 {
		return nil
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	sinks := make([]contract.EventSink, 0, len(rows))
	for _, s := range rows {
		sinks = append(sinks, s.sink)
	}
	return sinks
}

func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdleSince removes every Membership whose last activity is older than
// the threshold. A crash-safety net for lost disconnects: no leave notices
// are emitted, evicted members simply vanish from the next presence
// computation.
func (r *Registry) EvictIdleSince(threshold time.Duration, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for connID, s := range r.sessions {
		if now.Sub(s.membership.LastActiveAt) > threshold {
			r.log.Info(fmt.Sprintf("Evicting idle connection %s (%s)",
				connID, s.membership.Identity.DisplayName))
			delete(r.sessions, connID)
		}
	}
}

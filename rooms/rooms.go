// Package rooms finds free meeting rooms through the office's Google
// Calendar resources and knows where each room is on the office map.
package rooms

import (
	"fmt"
	"strings"

	"github.com/Ambro17/slacker/core"
)

// Room is one bookable meeting room.
type Room struct {
	Name       string
	Floor      int
	Size       string
	Capacity   int
	HasMeet    bool
	CalendarID string
}

// String renders the room the way the free-rooms listing shows it.
func (r Room) String() string {
	floor := "PB"
	if r.Floor > 0 {
		floor = fmt.Sprintf("Fl. %d", r.Floor)
	}
	meet := "No"
	if r.HasMeet {
		meet = "Yes"
	}
	return fmt.Sprintf("%s - %s - Size: %s - Meet? %s", title(r.Name), floor, r.Size, meet)
}

func title(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var catalog = []Room{
	// Ground floor
	{Name: "shannon", Floor: 0, Size: "medium", Capacity: 6, HasMeet: true},
	{Name: "diffie", Floor: 0, Size: "small", Capacity: 5, HasMeet: true},
	{Name: "godel", Floor: 0, Size: "small", Capacity: 5, HasMeet: true},
	{Name: "marie curie", Floor: 0, Size: "small", Capacity: 4, HasMeet: true},

	// First floor
	{Name: "knuth", Floor: 1, Size: "small", Capacity: 4},
	{Name: "boole", Floor: 1, Size: "small", Capacity: 4},
	{Name: "hamming", Floor: 1, Size: "small", Capacity: 4},
	{Name: "ritchie", Floor: 1, Size: "small", Capacity: 4},
	{Name: "anita borg", Floor: 1, Size: "small", Capacity: 5, HasMeet: true},
	{Name: "lovelace", Floor: 1, Size: "small", Capacity: 5, HasMeet: true},
	{Name: "huffman", Floor: 1, Size: "medium", Capacity: 6, HasMeet: true},

	// Second floor
	{Name: "angela ruiz", Floor: 2, Size: "big", Capacity: 8, HasMeet: true},
	{Name: "turing", Floor: 2, Size: "big", Capacity: 20, HasMeet: true},
}

var roomsByName = buildIndex()

func buildIndex() map[string]Room {
	index := make(map[string]Room, len(catalog))
	for _, room := range catalog {
		room.CalendarID = strings.ReplaceAll(room.Name, " ", "-") + "@resource.calendar.google.com"
		index[room.Name] = room
	}
	return index
}

// RoomByName resolves a room, tolerating case and surrounding spaces.
func RoomByName(name string) (Room, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	room, ok := roomsByName[normalized]
	if !ok {
		return Room{}, core.NewDomainError(core.KindUnknownTarget, "Specified room does not exist. Check for typos")
	}
	return room, nil
}

// AllRooms returns every bookable room.
func AllRooms() []Room {
	rooms := make([]Room, 0, len(roomsByName))
	for _, room := range catalog {
		rooms = append(rooms, roomsByName[room.Name])
	}
	return rooms
}

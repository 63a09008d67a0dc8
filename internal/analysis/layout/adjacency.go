package layout

import (
	"sort"

	"github.com/etell/placement-backend/internal/models"
	"github.com/etell/placement-backend/internal/spatial"
)

// AdjacencyMargin is how far (canvas units) a room reaches to find neighbours
const AdjacencyMargin = 10.0

// ComputeAdjacency maps each room ID to the IDs of the rooms it touches.
// Neighbour lists follow the input room order. Every room has an entry.
func ComputeAdjacency(rooms []models.Room) map[string][]string {
	adj := make(map[string][]string, len(rooms))
	for _, r := range rooms {
		adj[r.ID] = []string{}
	}

	for i := range rooms {
		bi := rooms[i].Bound()
		for j := range rooms {
			if i == j {
				continue
			}
			if spatial.BoundsTouch(bi, rooms[j].Bound(), AdjacencyMargin) {
				adj[rooms[i].ID] = append(adj[rooms[i].ID], rooms[j].ID)
			}
		}
	}
	return adj
}

// GroupFloors groups rooms by floor, ascending, and derives each floor's adjacency.
// Room order within a floor follows the input order.
func GroupFloors(rooms []models.Room) []models.FloorLayout {
	byFloor := make(map[int][]models.Room)
	for _, r := range rooms {
		byFloor[r.Floor] = append(byFloor[r.Floor], r)
	}

	floors := make([]int, 0, len(byFloor))
	for f := range byFloor {
		floors = append(floors, f)
	}
	sort.Ints(floors)

	out := make([]models.FloorLayout, 0, len(floors))
	for _, f := range floors {
		out = append(out, models.FloorLayout{
			Floor:     f,
			Rooms:     byFloor[f],
			Adjacency: ComputeAdjacency(byFloor[f]),
		})
	}
	return out
}

// FlattenRooms returns every room of every floor, floor by floor
func FlattenRooms(floors []models.FloorLayout) []models.Room {
	var rooms []models.Room
	for _, f := range floors {
		rooms = append(rooms, f.Rooms...)
	}
	return rooms
}

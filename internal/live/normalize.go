package live

import (
	"sort"

	"github.com/hoopfeed/courtside/internal/players"
	"github.com/hoopfeed/courtside/internal/upstream"
)

// Normalize filters one poll's raw actions down to those newer than the
// watermark and converts them to canonical play events, most recent first.
// The returned watermark is the highest action number among the new events,
// or the input watermark unchanged when nothing passed the filter.
//
// Player resolution is a presentation enrichment: a directory miss leaves the
// Player field empty and never fails normalization. Inputs are not mutated.
func Normalize(raw []upstream.RawAction, watermark int, dir players.Directory) ([]PlayEvent, int) {
	var fresh []upstream.RawAction
	for _, a := range raw {
		if a.ActionNumber > watermark {
			fresh = append(fresh, a)
		}
	}

	if len(fresh) == 0 {
		return nil, watermark
	}

	sort.Slice(fresh, func(i, j int) bool {
		return fresh[i].ActionNumber > fresh[j].ActionNumber
	})

	events := make([]PlayEvent, 0, len(fresh))
	for _, a := range fresh {
		var player string
		if a.PersonID != 0 {
			if name, ok := dir.LookupPlayerName(a.PersonID); ok {
				player = name
			}
		}
		events = append(events, PlayEvent{
			ActionNumber: a.ActionNumber,
			Period:       a.Period,
			Clock:        a.Clock,
			ActionType:   a.ActionType,
			Description:  a.Description,
			Player:       player,
		})
	}

	// Descending order puts the maximum action number first.
	return events, events[0].ActionNumber
}

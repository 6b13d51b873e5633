package gate

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// groupSize is the maximum number of correct images asked for at once.
	groupSize = 3
	// gridSize is the number of tiles shown per group.
	gridSize = 9
	// puzzleErrorTTL is how long a wrong submission keeps the transient
	// error raised.
	puzzleErrorTTL = time.Second
)

// DefaultFillerImages is the stock decoy pool the grid is padded with.
var DefaultFillerImages = fillerImages(14)

func fillerImages(n int) []string {
	images := make([]string, n)
	for i := range images {
		images[i] = fmt.Sprintf("/face-%d.jpg", i+1)
	}
	return images
}

// Tile is one selectable cell of the puzzle grid
type Tile struct {
	ID      string
	URL     string
	Correct bool
}

// Puzzle is the chunked image-selection challenge. The correct images are
// split into consecutive groups of up to three; each group is presented as a
// shuffled grid of nine tiles padded with random decoys, one group at a time.
type Puzzle struct {
	groups   [][]string
	current  int
	grid     []Tile
	selected map[string]bool
	fillers  []string
	rng      *rand.Rand
	now      func() time.Time
	errUntil time.Time
}

func newPuzzle(correct, fillers []string, rng *rand.Rand, now func() time.Time) *Puzzle {
	p := &Puzzle{
		groups:  chunk(correct, groupSize),
		fillers: fillers,
		rng:     rng,
		now:     now,
	}
	p.regenerate()
	return p
}

func chunk(items []string, size int) [][]string {
	var groups [][]string
	for len(items) > size {
		groups = append(groups, items[:size])
		items = items[size:]
	}
	return append(groups, items)
}

// Group returns the zero-based index of the active group
func (p *Puzzle) Group() int {
	return p.current
}

// GroupCount returns how many groups must be solved in total
func (p *Puzzle) GroupCount() int {
	return len(p.groups)
}

// Grid returns the tiles of the active group's presentation grid
func (p *Puzzle) Grid() []Tile {
	grid := make([]Tile, len(p.grid))
	copy(grid, p.grid)
	return grid
}

// Selected reports whether the tile with the given id is selected
func (p *Puzzle) Selected(id string) bool {
	return p.selected[id]
}

// Toggle flips a tile's selection and clears any raised error. Unknown ids
// are ignored.
func (p *Puzzle) Toggle(id string) {
	known := false
	for _, tile := range p.grid {
		if tile.ID == id {
			known = true
			break
		}
	}
	if !known {
		return
	}

	p.errUntil = time.Time{}
	if p.selected[id] {
		delete(p.selected, id)
	} else {
		p.selected[id] = true
	}
}

// Refresh regenerates the active group's grid with a fresh decoy sample and
// shuffle, clearing the selection and any error. The active group itself
// does not change.
func (p *Puzzle) Refresh() {
	p.regenerate()
}

// ErrorActive reports whether a wrong submission is still flagged. The flag
// clears on its own once the delay passes.
func (p *Puzzle) ErrorActive() bool {
	return p.now().Before(p.errUntil)
}

// verify checks the active group: solved means the selected tiles are
// exactly the correct ones and the set is non-empty. A wrong submission
// keeps the selection so the viewer can adjust it. Returns true only when
// the final group is solved.
func (p *Puzzle) verify() bool {
	correct := 0
	solved := true
	for _, tile := range p.grid {
		if tile.Correct {
			correct++
			if !p.selected[tile.ID] {
				solved = false
			}
		} else if p.selected[tile.ID] {
			solved = false
		}
	}
	if correct == 0 {
		solved = false
	}

	if !solved {
		p.errUntil = p.now().Add(puzzleErrorTTL)
		return false
	}

	p.errUntil = time.Time{}
	if p.current < len(p.groups)-1 {
		p.current++
		p.regenerate()
		return false
	}
	return true
}

// regenerate rebuilds the grid for the active group: its correct images plus
// a fresh random decoy sample, shuffled together.
func (p *Puzzle) regenerate() {
	group := p.groups[p.current]

	tiles := make([]Tile, 0, gridSize)
	for i, url := range group {
		tiles = append(tiles, Tile{ID: fmt.Sprintf("correct-%d", i), URL: url, Correct: true})
	}

	decoys := make([]string, len(p.fillers))
	copy(decoys, p.fillers)
	p.rng.Shuffle(len(decoys), func(i, j int) {
		decoys[i], decoys[j] = decoys[j], decoys[i]
	})
	if needed := gridSize - len(tiles); needed < len(decoys) {
		decoys = decoys[:needed]
	}
	for i, url := range decoys {
		tiles = append(tiles, Tile{ID: fmt.Sprintf("filler-%d", i), URL: url})
	}

	p.rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})

	p.grid = tiles
	p.selected = make(map[string]bool)
	p.errUntil = time.Time{}
}

package gate_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/Sagar-1103/blush-build/internal/gate"
	"github.com/Sagar-1103/blush-build/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is an adjustable clock so transient-error expiry is testable
// without sleeping.
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time {
	return c.current
}

func (c *testClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestClock() *testClock {
	return &testClock{current: time.Unix(1700000000, 0)}
}

func captchaImages(n int) []string {
	images := make([]string, n)
	for i := range images {
		images[i] = fmt.Sprintf("https://cdn.example.com/crush-%d.jpg", i+1)
	}
	return images
}

func TestInitialState(t *testing.T) {
	tests := []struct {
		name string
		cfg  gate.Config
		want gate.State
	}{
		{
			name: "no protection",
			cfg:  gate.Config{UnlockType: models.UnlockNone},
			want: gate.StateUnlocked,
		},
		{
			name: "password",
			cfg:  gate.Config{UnlockType: models.UnlockPassword, UnlockValue: "1234"},
			want: gate.StateCredential,
		},
		{
			name: "nickname",
			cfg:  gate.Config{UnlockType: models.UnlockNickname, UnlockValue: "Pookie"},
			want: gate.StateCredential,
		},
		{
			name: "captcha with images",
			cfg:  gate.Config{UnlockType: models.UnlockLoveCaptcha, CaptchaImages: captchaImages(3)},
			want: gate.StatePuzzle,
		},
		{
			name: "captcha without images",
			cfg:  gate.Config{UnlockType: models.UnlockLoveCaptcha},
			want: gate.StateUnlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.New(tt.cfg).State())
		})
	}
}

func TestPasswordExactMatch(t *testing.T) {
	clock := newTestClock()
	g := gate.New(gate.Config{
		UnlockType:  models.UnlockPassword,
		UnlockValue: "1234",
		Now:         clock.Now,
	})

	// Wrong code keeps the gate locked and raises the transient error.
	assert.False(t, g.SubmitCredential("1235"))
	assert.Equal(t, gate.StateCredential, g.State())
	assert.True(t, g.ErrorActive())

	// The error clears on its own.
	clock.Advance(3 * time.Second)
	assert.False(t, g.ErrorActive())

	// Passwords are case-sensitive, exact.
	assert.False(t, g.SubmitCredential(" 1234 "))
	assert.Equal(t, gate.StateCredential, g.State())

	assert.True(t, g.SubmitCredential("1234"))
	assert.Equal(t, gate.StateUnlocked, g.State())
	assert.False(t, g.ErrorActive())
}

func TestPasswordCaseSensitive(t *testing.T) {
	g := gate.New(gate.Config{UnlockType: models.UnlockPassword, UnlockValue: "Secret"})

	assert.False(t, g.SubmitCredential("secret"))
	assert.Equal(t, gate.StateCredential, g.State())
	assert.True(t, g.SubmitCredential("Secret"))
}

func TestNicknameIgnoresCaseAndWhitespace(t *testing.T) {
	g := gate.New(gate.Config{UnlockType: models.UnlockNickname, UnlockValue: "Pookie"})

	assert.True(t, g.SubmitCredential(" pookie "))
	assert.Equal(t, gate.StateUnlocked, g.State())
}

func TestUnlockedIsTerminal(t *testing.T) {
	g := gate.New(gate.Config{UnlockType: models.UnlockNone})

	assert.Equal(t, gate.StateUnlocked, g.State())
	assert.False(t, g.SubmitCredential("anything"))
	assert.False(t, g.SubmitPuzzle())
	assert.Equal(t, gate.StateUnlocked, g.State())
}

// selectTiles marks exactly the given tiles as selected.
func selectTiles(p *gate.Puzzle, tiles []gate.Tile) {
	for _, tile := range tiles {
		p.Toggle(tile.ID)
	}
}

func correctTiles(p *gate.Puzzle) []gate.Tile {
	var tiles []gate.Tile
	for _, tile := range p.Grid() {
		if tile.Correct {
			tiles = append(tiles, tile)
		}
	}
	return tiles
}

func decoyTiles(p *gate.Puzzle) []gate.Tile {
	var tiles []gate.Tile
	for _, tile := range p.Grid() {
		if !tile.Correct {
			tiles = append(tiles, tile)
		}
	}
	return tiles
}

func newPuzzleGate(t *testing.T, images []string, clock *testClock) *gate.Gate {
	t.Helper()
	cfg := gate.Config{
		UnlockType:    models.UnlockLoveCaptcha,
		CaptchaImages: images,
		Rand:          rand.New(rand.NewSource(42)),
	}
	if clock != nil {
		cfg.Now = clock.Now
	}
	g := gate.New(cfg)
	require.Equal(t, gate.StatePuzzle, g.State())
	require.NotNil(t, g.Puzzle())
	return g
}

func TestPuzzleChunking(t *testing.T) {
	g := newPuzzleGate(t, captchaImages(7), nil)
	p := g.Puzzle()

	// Seven correct images split into consecutive groups of 3, 3, 1.
	assert.Equal(t, 3, p.GroupCount())
	assert.Equal(t, 0, p.Group())
	assert.Len(t, p.Grid(), 9)
	assert.Len(t, correctTiles(p), 3)

	// The first group holds the first three images, in some grid order.
	var urls []string
	for _, tile := range correctTiles(p) {
		urls = append(urls, tile.URL)
	}
	assert.ElementsMatch(t, captchaImages(7)[:3], urls)
}

func TestPuzzleSolvingGroupAdvances(t *testing.T) {
	g := newPuzzleGate(t, captchaImages(7), nil)
	p := g.Puzzle()

	selectTiles(p, correctTiles(p))
	assert.False(t, g.SubmitPuzzle())

	// Advanced to the second group with a fresh grid and cleared selection.
	assert.Equal(t, 1, p.Group())
	assert.Equal(t, gate.StatePuzzle, g.State())
	for _, tile := range p.Grid() {
		assert.False(t, p.Selected(tile.ID))
	}

	var urls []string
	for _, tile := range correctTiles(p) {
		urls = append(urls, tile.URL)
	}
	assert.ElementsMatch(t, captchaImages(7)[3:6], urls)
}

func TestPuzzleWrongSelectionKeepsGroup(t *testing.T) {
	clock := newTestClock()
	g := newPuzzleGate(t, captchaImages(7), clock)
	p := g.Puzzle()

	// Two of three correct plus one decoy.
	correct := correctTiles(p)
	decoy := decoyTiles(p)[0]
	selectTiles(p, correct[:2])
	p.Toggle(decoy.ID)

	assert.False(t, g.SubmitPuzzle())
	assert.Equal(t, 0, p.Group())
	assert.True(t, p.ErrorActive())

	// Selections survive the failed attempt so the viewer can adjust.
	assert.True(t, p.Selected(correct[0].ID))
	assert.True(t, p.Selected(correct[1].ID))
	assert.True(t, p.Selected(decoy.ID))

	// The error clears on its own.
	clock.Advance(2 * time.Second)
	assert.False(t, p.ErrorActive())

	// Fixing the selection solves the group.
	p.Toggle(decoy.ID)
	p.Toggle(correct[2].ID)
	assert.False(t, g.SubmitPuzzle())
	assert.Equal(t, 1, p.Group())
}

func TestPuzzleEmptySelectionFails(t *testing.T) {
	g := newPuzzleGate(t, captchaImages(3), nil)
	p := g.Puzzle()

	assert.False(t, g.SubmitPuzzle())
	assert.Equal(t, 0, p.Group())
	assert.Equal(t, gate.StatePuzzle, g.State())
}

func TestPuzzleSolvingFinalGroupUnlocks(t *testing.T) {
	g := newPuzzleGate(t, captchaImages(4), nil)
	p := g.Puzzle()
	require.Equal(t, 2, p.GroupCount())

	selectTiles(p, correctTiles(p))
	assert.False(t, g.SubmitPuzzle())
	require.Equal(t, 1, p.Group())
	assert.Len(t, correctTiles(p), 1)

	selectTiles(p, correctTiles(p))
	assert.True(t, g.SubmitPuzzle())
	assert.Equal(t, gate.StateUnlocked, g.State())
}

func TestPuzzleRefresh(t *testing.T) {
	g := newPuzzleGate(t, captchaImages(7), nil)
	p := g.Puzzle()

	correctBefore := correctTiles(p)
	selectTiles(p, correctBefore[:1])

	gridURLs := func() []string {
		var urls []string
		for _, tile := range p.Grid() {
			urls = append(urls, tile.URL)
		}
		return urls
	}

	before := gridURLs()
	changed := false
	for i := 0; i < 20 && !changed; i++ {
		p.Refresh()
		changed = !assert.ObjectsAreEqual(before, gridURLs())
	}
	// A fresh decoy sample and shuffle must show up within a few refreshes.
	assert.True(t, changed)

	// Refresh keeps the group and its correct images, drops the selection.
	assert.Equal(t, 0, p.Group())
	var urls []string
	for _, tile := range correctTiles(p) {
		urls = append(urls, tile.URL)
	}
	assert.ElementsMatch(t, captchaImages(7)[:3], urls)
	for _, tile := range p.Grid() {
		assert.False(t, p.Selected(tile.ID))
	}
}

func TestPuzzleGridPadsWithDecoys(t *testing.T) {
	g := newPuzzleGate(t, captchaImages(1), nil)
	p := g.Puzzle()

	require.Equal(t, 1, p.GroupCount())
	assert.Len(t, p.Grid(), 9)
	assert.Len(t, correctTiles(p), 1)
	assert.Len(t, decoyTiles(p), 8)

	// Decoys come from the stock filler pool.
	for _, tile := range decoyTiles(p) {
		assert.Contains(t, gate.DefaultFillerImages, tile.URL)
	}
}

// Package gate implements the unlock sequence a protected page runs before
// revealing its content: a password or nickname check, an image-selection
// puzzle, or both in that order.
//
// The gate is a deterrent against casual guessing, not a security boundary:
// the page payload already carries the expected credential and the correct
// captcha images when it reaches the viewer. Unlocking is never persisted;
// every page load starts a fresh gate.
package gate

import (
	"math/rand"
	"strings"
	"time"

	"github.com/Sagar-1103/blush-build/internal/models"
)

// State is the gate's position in the unlock sequence
type State int

const (
	// StateCredential waits for a password or nickname.
	StateCredential State = iota
	// StatePuzzle waits for the image-selection puzzle.
	StatePuzzle
	// StateUnlocked is terminal; the content is revealed.
	StateUnlocked
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateCredential:
		return "locked-credential"
	case StatePuzzle:
		return "locked-puzzle"
	case StateUnlocked:
		return "unlocked"
	}
	return "unknown"
}

// credentialErrorTTL is how long a failed credential attempt keeps the
// transient error raised before it clears on its own.
const credentialErrorTTL = 2 * time.Second

// Config derives a gate from a page's protection settings
type Config struct {
	UnlockType    models.UnlockType
	UnlockValue   string
	CaptchaImages []string
	// FillerImages is the decoy pool for the puzzle; DefaultFillerImages
	// when empty.
	FillerImages []string
	// Rand drives decoy sampling and grid shuffling; seeded from the clock
	// when nil. Tests pass a seeded source.
	Rand *rand.Rand
	// Now is the clock for transient-error expiry; time.Now when nil.
	Now func() time.Time
}

// Gate sequences the credential check and the puzzle for one page view
type Gate struct {
	unlockType  models.UnlockType
	unlockValue string
	state       State
	puzzle      *Puzzle
	now         func() time.Time
	errUntil    time.Time
}

// New derives the initial state from the protection config: credential first
// if one is set, else the puzzle if one is configured, else unlocked.
func New(cfg Config) *Gate {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Gate{
		unlockType:  cfg.UnlockType,
		unlockValue: cfg.UnlockValue,
		now:         now,
	}

	if cfg.UnlockType == models.UnlockLoveCaptcha && len(cfg.CaptchaImages) > 0 {
		fillers := cfg.FillerImages
		if len(fillers) == 0 {
			fillers = DefaultFillerImages
		}
		g.puzzle = newPuzzle(cfg.CaptchaImages, fillers, rng, now)
	}

	switch {
	case cfg.UnlockType.NeedsCredential():
		g.state = StateCredential
	case g.puzzle != nil:
		g.state = StatePuzzle
	default:
		g.state = StateUnlocked
	}
	return g
}

// State returns the current position in the unlock sequence
func (g *Gate) State() State {
	return g.state
}

// Puzzle returns the active puzzle, or nil if the page has none
func (g *Gate) Puzzle() *Puzzle {
	return g.puzzle
}

// ErrorActive reports whether a failed credential attempt is still flagged.
// The flag clears on its own once the delay passes.
func (g *Gate) ErrorActive() bool {
	return g.now().Before(g.errUntil)
}

// SubmitCredential checks the entered password or nickname and reports
// whether it matched. Password mode is a case-sensitive exact match;
// nickname mode ignores case and surrounding whitespace. A mismatch keeps
// the state and raises the transient error; there is no attempt limit.
func (g *Gate) SubmitCredential(input string) bool {
	if g.state != StateCredential {
		return false
	}

	var ok bool
	switch g.unlockType {
	case models.UnlockPassword:
		ok = input == g.unlockValue
	case models.UnlockNickname:
		ok = strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(g.unlockValue))
	}

	if !ok {
		g.errUntil = g.now().Add(credentialErrorTTL)
		return false
	}

	g.errUntil = time.Time{}
	if g.puzzle != nil {
		g.state = StatePuzzle
	} else {
		g.state = StateUnlocked
	}
	return true
}

// SubmitPuzzle verifies the current puzzle group and reports whether the
// gate unlocked. Solving a non-final group advances the puzzle; solving the
// final group unlocks.
func (g *Gate) SubmitPuzzle() bool {
	if g.state != StatePuzzle {
		return false
	}
	if g.puzzle.verify() {
		g.state = StateUnlocked
		return true
	}
	return false
}

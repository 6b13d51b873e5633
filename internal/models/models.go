package models

import "time"

// TemplateType selects the visual template a page is rendered with.
type TemplateType string

const (
	TemplateConfession TemplateType = "confession"
	TemplateValentine  TemplateType = "valentine"
	TemplateProposal   TemplateType = "proposal"
)

// Valid reports whether t is a known template type.
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateConfession, TemplateValentine, TemplateProposal:
		return true
	}
	return false
}

// InteractiveTwist is the configured behavior of the "No" button.
type InteractiveTwist string

const (
	TwistNone    InteractiveTwist = "none"
	TwistRunaway InteractiveTwist = "runaway"
	// TwistHeartPuzzle predates UnlockLoveCaptcha. Accepted on read for old
	// rows, never written by new code.
	TwistHeartPuzzle InteractiveTwist = "heart-puzzle"
)

// Valid reports whether t is a known twist, including the deprecated one.
func (t InteractiveTwist) Valid() bool {
	switch t {
	case TwistNone, TwistRunaway, TwistHeartPuzzle:
		return true
	}
	return false
}

// UnlockType is the page-level protection mode.
type UnlockType string

const (
	UnlockNone        UnlockType = "none"
	UnlockPassword    UnlockType = "password"
	UnlockNickname    UnlockType = "nickname"
	UnlockLoveCaptcha UnlockType = "love-captcha"
)

// Valid reports whether u is a known unlock type.
func (u UnlockType) Valid() bool {
	switch u {
	case UnlockNone, UnlockPassword, UnlockNickname, UnlockLoveCaptcha:
		return true
	}
	return false
}

// NeedsCredential reports whether the mode asks for a password or nickname.
func (u UnlockType) NeedsCredential() bool {
	return u == UnlockPassword || u == UnlockNickname
}

// NoButtonStyle mirrors InteractiveTwist for older renderers. It is always
// derived, never set independently.
type NoButtonStyle string

const (
	NoButtonRunaway      NoButtonStyle = "runaway"
	NoButtonSweetMessage NoButtonStyle = "sweet-message"
)

// DeriveNoButtonStyle computes the legacy mirror field from the twist.
func DeriveNoButtonStyle(twist InteractiveTwist) NoButtonStyle {
	if twist == TwistRunaway {
		return NoButtonRunaway
	}
	return NoButtonSweetMessage
}

// User represents an account that owns pages
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Page represents a published surprise page
type Page struct {
	ID            string           `json:"id"`
	Slug          string           `json:"slug"`
	OwnerUserID   *string          `json:"owner_user_id,omitempty"`
	TemplateType  TemplateType     `json:"template_type"`
	CrushName     string           `json:"crush_name"`
	MainMessage   string           `json:"main_message"`
	SubMessage    *string          `json:"sub_message,omitempty"`
	BgColor       string           `json:"bg_color"`
	FontStyle     string           `json:"font_style"`
	MusicURL      *string          `json:"music_url,omitempty"`
	SuccessMsg    string           `json:"success_message"`
	Twist         InteractiveTwist `json:"interactive_twist"`
	UnlockType    UnlockType       `json:"unlock_type"`
	UnlockValue   *string          `json:"unlock_value,omitempty"`
	CaptchaImages []string         `json:"captcha_images,omitempty"`
	NoButtonStyle NoButtonStyle    `json:"no_button_style"`
	Published     bool             `json:"published"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Photos []PagePhoto `json:"photos,omitempty"`
}

// PagePhoto is a photo attached to a page; Order is the zero-based position.
type PagePhoto struct {
	ID     string `json:"id"`
	PageID string `json:"page_id"`
	URL    string `json:"url"`
	Order  int    `json:"order"`
}

// PageView is one append-only view event for a page.
type PageView struct {
	ID       string    `json:"id"`
	PageID   string    `json:"page_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// PageSummary is a dashboard row: a page annotated with its view aggregate.
type PageSummary struct {
	ID           string       `json:"id"`
	Slug         string       `json:"slug"`
	TemplateType TemplateType `json:"template_type"`
	CrushName    string       `json:"crush_name"`
	MainMessage  string       `json:"main_message"`
	Published    bool         `json:"published"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	ViewCount    int          `json:"view_count"`
	LastViewed   *time.Time   `json:"last_viewed,omitempty"`
}

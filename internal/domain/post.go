package domain

import "time"

// Post is an ingested video pinned to the canvas. Content stays nil until
// the first summarization run; X/Y stay nil until the card is dragged.
type Post struct {
	Id          PostId    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Transcript  string    `json:"transcript"`
	Content     *string   `json:"content"`
	Url         string    `json:"url"`
	X           *float64  `json:"x"`
	Y           *float64  `json:"y"`
	BoardId     *BoardId  `json:"boardId"`
	OwnerId     UserId    `json:"-"`
	OwnerEmail  Email     `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Position reports the persisted coordinates, or the deterministic row
// layout (fixed y, x offset by list index) when the card was never moved.
func (p *Post) Position(index int) (float64, float64) {
	if p.X != nil && p.Y != nil {
		return *p.X, *p.Y
	}
	return DefaultLayoutX + float64(index)*DefaultLayoutStep, DefaultLayoutY
}

const (
	DefaultLayoutX    = 450.0
	DefaultLayoutStep = 300.0
	DefaultLayoutY    = 150.0
)

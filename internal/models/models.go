package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Post statuses. A post starts as pending and is moved to accepted or
// rejected by a moderator; the transition never reverses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// NoImagesSentinel is what serialization emits instead of an image list when
// a post has no images. Downstream consumers branch on this exact value.
const NoImagesSentinel = "NO IMAGES FOR THIS POST"

type Post struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"user_id" db:"user_id"`
	CategoryID        int64     `json:"category_id" db:"category_id"`
	CreateDate        time.Time `json:"create_date" db:"create_date"`
	LastRevised       time.Time `json:"last_revised" db:"last_revised"`
	PostTitle         string    `json:"post_title" db:"post_title"`
	PostDescription   string    `json:"post_description" db:"post_description"`
	PostStatus        string    `json:"post_status" db:"post_status"`
	Price             *float64  `json:"price" db:"price"`
	IsPriceNegotiable bool      `json:"is_price_negotiable" db:"is_price_negotiable"`
	NumberOfImages    int       `json:"number_of_images" db:"number_of_images"`
}

// ImageLocations returns the derived image paths for the post, computed from
// ID and NumberOfImages. Nothing is stored or cached; the result always
// reflects the current image count.
func (p Post) ImageLocations() []string {
	if p.NumberOfImages <= 0 {
		return nil
	}
	locations := make([]string, 0, p.NumberOfImages)
	for n := 1; n <= p.NumberOfImages; n++ {
		locations = append(locations, fmt.Sprintf("images/posts/%d-%d.jpg", p.ID, n))
	}
	return locations
}

// ImageLocation is the consumer-facing form of the derived image paths:
// a list of paths, or the sentinel string when there are none. MarshalJSON
// emits exactly this value.
func (p Post) ImageLocation() interface{} {
	locations := p.ImageLocations()
	if len(locations) == 0 {
		return NoImagesSentinel
	}
	return locations
}

// MarshalJSON emits every stored attribute plus image_location, which is
// computed at marshal time.
func (p Post) MarshalJSON() ([]byte, error) {
	type postAlias Post
	return json.Marshal(struct {
		postAlias
		ImageLocation interface{} `json:"image_location"`
	}{
		postAlias:     postAlias(p),
		ImageLocation: p.ImageLocation(),
	})
}

// SetTitle updates the title and refreshes LastRevised.
func (p *Post) SetTitle(title string) {
	p.PostTitle = title
	p.LastRevised = time.Now().UTC()
}

// SetDescription updates the description and refreshes LastRevised.
func (p *Post) SetDescription(description string) {
	p.PostDescription = description
	p.LastRevised = time.Now().UTC()
}

// SetPrice updates the price and refreshes LastRevised.
func (p *Post) SetPrice(price float64) {
	p.Price = &price
	p.LastRevised = time.Now().UTC()
}

// Message is a communication between two users about a post. ID and
// CreateDate are immutable once the message is persisted.
type Message struct {
	ID          int64     `json:"id" db:"id"`
	SenderID    int64     `json:"sender_id" db:"sender_id"`
	RecipientID int64     `json:"recipient_id" db:"recipient_id"`
	PostID      int64     `json:"post_id" db:"post_id"`
	MessageBody string    `json:"message_body" db:"message_body"`
	CreateDate  time.Time `json:"create_date" db:"create_date"`
}

type Category struct {
	ID           int64  `json:"id" db:"id"`
	CategoryName string `json:"category_name" db:"category_name"`
}

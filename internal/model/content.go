package model

import "time"

// Article is a news/blog entry written by staff and shown on the public
// site.  Corresponds to a row in the `articles` table.
type Article struct {
	ID        uint64    // articles.id
	Title     string    // articles.title
	Body      string    // articles.body
	AuthorID  uint64    // articles.author_id
	CreatedAt time.Time // articles.created_at
	UpdatedAt time.Time // articles.updated_at
}

// Faq is a single question/answer pair on the public FAQ page.  Position
// controls display order.
type Faq struct {
	ID       uint64 // faqs.id
	Question string // faqs.question
	Answer   string // faqs.answer
	Position int    // faqs.position
}

package domain

import "time"

// FilterAll es el filtro centinela que muestra todo el feed.
const FilterAll = "ALL"

// DefaultPostTag se asigna cuando el autor no indica tags.
const DefaultPostTag = "일상"

type Post struct {
	ID         string    `json:"id"`
	AuthorType string    `json:"author_type"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	Likes      int       `json:"likes"`
	Comments   int       `json:"comments"`
	CreatedAt  time.Time `json:"timestamp"`
}

package domain

// Book is a catalog entry. A book always references exactly one author;
// the Author field is populated before a book is returned to a caller.
type Book struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Published int      `json:"published"`
	Genres    []string `json:"genres"`
	AuthorID  string   `json:"-"`
	Author    *Author  `json:"author"`
}

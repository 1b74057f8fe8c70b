package domain

// DateLayout formats the creation stamp of a note as month-day-year.
const DateLayout = "01-02-2006"

// Note is a text note. UserID is nil when the note was created without a
// session.
type Note struct {
	ID     int64
	Title  string
	Text   string
	Date   string
	UserID *int64
}

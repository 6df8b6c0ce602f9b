package book

import "time"

// TimeLayout is the timestamp format used for insertedAt/updatedAt.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Book is a single catalogue entry.
type Book struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	Author     string `json:"author"`
	Summary    string `json:"summary"`
	Publisher  string `json:"publisher"`
	PageCount  int    `json:"pageCount"`
	ReadPage   int    `json:"readPage"`
	Finished   bool   `json:"finished"`
	Reading    bool   `json:"reading"`
	InsertedAt string `json:"insertedAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// Summary is the projection returned when listing books.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

// Summarize projects b onto the list shape.
func (b Book) Summarize() Summary {
	return Summary{ID: b.ID, Name: b.Name, Publisher: b.Publisher}
}

// Input carries client supplied fields for create and update.
// A nil numeric field means the value was absent or not a number.
type Input struct {
	Name      *string
	Year      *int
	Author    string
	Summary   string
	Publisher string
	PageCount *int
	ReadPage  *int
	Reading   bool
}

// Filter holds raw list query values; nil fields are not applied.
type Filter struct {
	Name     *string
	Reading  *string
	Finished *string
}

// Empty reports whether no filter value was supplied.
func (f Filter) Empty() bool {
	return f.Name == nil && f.Reading == nil && f.Finished == nil
}

// FormatTime renders t in TimeLayout, always in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

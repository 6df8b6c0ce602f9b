package catalog

import "github.com/zhouzirui/bookshelf/backend/internal/model/book"

// validate applies the payload checks in order and returns the first violation.
// Nothing is mutated before it returns nil.
func validate(op Op, in book.Input) error {
	if in.Name == nil || *in.Name == "" {
		return &ValidationError{Op: op, Field: "name", Reason: "name is required"}
	}
	if in.Year == nil {
		return &ValidationError{Op: op, Field: "year", Reason: "year must be numeric"}
	}
	if in.PageCount == nil {
		return &ValidationError{Op: op, Field: "pageCount", Reason: "pageCount must be numeric"}
	}
	if in.ReadPage == nil {
		return &ValidationError{Op: op, Field: "readPage", Reason: "readPage must be numeric"}
	}
	if *in.ReadPage > *in.PageCount {
		return &ValidationError{Op: op, Field: "readPage", Reason: "readPage must not be greater than pageCount"}
	}
	return nil
}

// apply copies the mutable fields of a validated input onto b and derives finished.
func apply(b book.Book, in book.Input) book.Book {
	b.Name = *in.Name
	b.Year = *in.Year
	b.Author = in.Author
	b.Summary = in.Summary
	b.Publisher = in.Publisher
	b.PageCount = *in.PageCount
	b.ReadPage = *in.ReadPage
	b.Finished = b.ReadPage == b.PageCount
	b.Reading = in.Reading
	return b
}

package catalog

import "github.com/google/uuid"

// IDLength is the number of characters in a generated book id.
const IDLength = 16

const idAlphabet = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"

// NewID returns a random URL-safe token of IDLength characters.
func NewID() string {
	u := uuid.New()
	out := make([]byte, IDLength)
	for i := range out {
		out[i] = idAlphabet[u[i]&63]
	}
	return string(out)
}

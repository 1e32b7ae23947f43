package linkaddrs

import (
	"errors"
	"fmt"
)

// ErrLinkNotFound matches any LinkNotFoundError via errors.Is.
var ErrLinkNotFound = errors.New("link not found")

// LinkNotFoundError reports that zero links matched a query. Link holds
// the requested name and is empty when the whole host was queried.
type LinkNotFoundError struct {
	Link string
}

func (e *LinkNotFoundError) Error() string {
	if e.Link == "" {
		return "no links found"
	}
	return fmt.Sprintf("link not found: %s", e.Link)
}

// Is reports whether target is ErrLinkNotFound.
func (e *LinkNotFoundError) Is(target error) bool {
	return target == ErrLinkNotFound
}

package pager

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cursor is an opaque pagination token produced by a FetchFunc. The empty
// cursor requests the first page when passed in and means "no further
// pages" when returned.
type Cursor string

func (c Cursor) IsZero() bool { return c == "" }

var ErrInvalidCursor = errors.New("pager: invalid cursor")

// Key is a keyset position: the sort value, creation time and id of the
// last row of a page. It orders rows totally when id is unique.
type Key struct {
	Sort      int64
	CreatedAt time.Time
	ID        string
}

// EncodeKey packs k into a cursor.
func EncodeKey(k Key) Cursor {
	raw := strconv.FormatInt(k.Sort, 10) + ":" + strconv.FormatInt(k.CreatedAt.UnixMilli(), 10) + ":" + k.ID
	return Cursor(base64.RawURLEncoding.EncodeToString([]byte(raw)))
}

// DecodeKey reverses EncodeKey.
func DecodeKey(c Cursor) (Key, error) {
	if c.IsZero() {
		return Key{}, fmt.Errorf("%w: empty", ErrInvalidCursor)
	}
	b, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	parts := strings.SplitN(string(b), ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Key{}, fmt.Errorf("%w: malformed key", ErrInvalidCursor)
	}
	sortValue, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("%w: sort value: %v", ErrInvalidCursor, err)
	}
	createdMs, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("%w: created at: %v", ErrInvalidCursor, err)
	}
	return Key{
		Sort:      sortValue,
		CreatedAt: time.UnixMilli(createdMs).UTC(),
		ID:        parts[2],
	}, nil
}

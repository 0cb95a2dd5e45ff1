package feed

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrBadCursor is returned when a caller threads back a cursor this
// service never produced.
var ErrBadCursor = errors.New("malformed feed cursor")

// cursor marks the last row of a page in the (created_at desc, id desc)
// ordering. It is serialized opaquely; callers only thread it through.
type cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func encodeCursor(c cursor) string {
	raw := fmt.Sprintf("%d:%s", c.CreatedAt.UnixNano(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return cursor{}, ErrBadCursor
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return cursor{}, ErrBadCursor
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return cursor{}, ErrBadCursor
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return cursor{}, ErrBadCursor
	}

	return cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: id}, nil
}

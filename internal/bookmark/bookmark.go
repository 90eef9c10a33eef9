package bookmark

import (
	"time"

	"github.com/google/uuid"

	byteTypes "dailyByteAPI/internal/byte"
)

type Bookmark struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ByteID    uuid.UUID `json:"byteId" db:"byte_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WithByte is a bookmark joined with the byte it points at, for the
// saved-items view.
type WithByte struct {
	Bookmark
	Byte *byteTypes.Byte `json:"byte"`
}

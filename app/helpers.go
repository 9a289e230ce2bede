package app

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// UuidToString converts a pgtype.UUID to its string representation.
func UuidToString(u pgtype.UUID) string {
	return uuid.UUID(u.Bytes).String()
}

// NewPgUUID returns a fresh v7 UUID wrapped for the store layer.
func NewPgUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true}
}

func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

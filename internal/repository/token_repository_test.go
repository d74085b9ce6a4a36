package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow feeds canned column values into the scan helpers.
type fakeRow struct {
	vals []any
}

func (f *fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch v := d.(type) {
		case *uint64:
			*v = f.vals[i].(uint64)
		case *string:
			*v = f.vals[i].(string)
		case *bool:
			*v = f.vals[i].(bool)
		case *time.Time:
			*v = f.vals[i].(time.Time)
		default:
			// sql.NullTime and friends implement sql.Scanner.
			if s, ok := d.(interface{ Scan(any) error }); ok {
				if err := s.Scan(f.vals[i]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func TestScanRefreshToken(t *testing.T) {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	expires := created.AddDate(0, 0, 30)

	tok, err := scanRefreshToken(&fakeRow{vals: []any{
		uint64(7), uint64(42), "abc123", expires, nil, created,
	}})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), tok.ID)
	assert.Equal(t, uint64(42), tok.UserID)
	assert.Equal(t, "abc123", tok.TokenHash)
	assert.Equal(t, expires, tok.ExpiresAt)
	assert.Nil(t, tok.RevokedAt)

	revoked := created.Add(48 * time.Hour)
	tok, err = scanRefreshToken(&fakeRow{vals: []any{
		uint64(8), uint64(42), "def456", expires, revoked, created,
	}})
	require.NoError(t, err)
	require.NotNil(t, tok.RevokedAt)
	assert.Equal(t, revoked, *tok.RevokedAt)
}

func TestScanUser(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	u, err := scanUser(&fakeRow{vals: []any{
		uint64(3), "guest@example.com", "$2a$10$hash", "USER", true, created, created,
	}})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), u.ID)
	assert.Equal(t, "guest@example.com", u.Email)
	assert.Equal(t, "USER", u.Role)
	assert.True(t, u.IsActive)
}

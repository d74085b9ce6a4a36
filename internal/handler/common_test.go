package handler

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranBistrovic/QuantumHotel/internal/repository"
)

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDate("01.03.2026")
	assert.Error(t, err)
	_, err = parseDate("")
	assert.Error(t, err)
}

func TestParsePositiveInt(t *testing.T) {
	n, err := parsePositiveInt("4")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = parsePositiveInt("0")
	assert.Error(t, err)
	_, err = parsePositiveInt("-2")
	assert.Error(t, err)
	_, err = parsePositiveInt("two")
	assert.Error(t, err)
}

func TestToReservationViewDerivesPrice(t *testing.T) {
	room := 12
	processed := time.Date(2026, 2, 20, 10, 30, 0, 0, time.UTC)
	detail := &repository.ReservationDetail{
		ID:            7,
		Status:        "CONFIRMED",
		DateFrom:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:        time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		UserID:        3,
		UserEmail:     "guest@example.com",
		CategoryID:    1,
		CategoryName:  "Standard",
		CategoryPrice: decimal.RequireFromString("80.00"),
		RoomNumber:    &room,
		CreatedAt:     time.Date(2026, 2, 18, 9, 0, 0, 0, time.UTC),
		ProcessedAt:   &processed,
		Amenities: []repository.AmenityLine{
			{AmenityID: 1, Name: "Breakfast", Price: decimal.RequireFromString("12.50"), Quantity: 2},
		},
	}

	v := toReservationView(detail)

	assert.Equal(t, "2026-03-01", v.DateFrom)
	assert.Equal(t, "2026-03-04", v.DateTo)
	assert.Equal(t, 3, v.Price.Nights)
	assert.Equal(t, "240.00", v.Price.BaseTotal)
	assert.Equal(t, "25.00", v.Price.AmenitiesTotal)
	assert.Equal(t, "265.00", v.Price.Total)
	require.Len(t, v.Amenities, 1)
	assert.Equal(t, "12.50", v.Amenities[0].Price)
	require.NotNil(t, v.ProcessedAt)
	assert.Equal(t, "2026-02-20T10:30:00Z", *v.ProcessedAt)
}

func TestToReservationViewNoAmenities(t *testing.T) {
	detail := &repository.ReservationDetail{
		ID:            9,
		Status:        "PENDING",
		DateFrom:      time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		DateTo:        time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC),
		CategoryPrice: decimal.RequireFromString("99.90"),
		CreatedAt:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Amenities:     []repository.AmenityLine{},
	}

	v := toReservationView(detail)

	assert.Equal(t, 1, v.Price.Nights)
	assert.Equal(t, "99.90", v.Price.Total)
	assert.Equal(t, "0.00", v.Price.AmenitiesTotal)
	assert.Empty(t, v.Amenities)
	assert.Nil(t, v.ProcessedAt)
}

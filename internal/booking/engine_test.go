package booking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func uintPtr(v uint64) *uint64 { return &v }

// fixture: two categories, three units.  Category 1 ("Standard", 80/night,
// cap 2) owns units 11 and 12; category 2 ("Suite", 150/night, cap 4) owns
// unit 21.
func fixture() ([]model.Category, []model.Unit) {
	cats := []model.Category{
		{ID: 1, Name: "Standard", UnitsNumber: 2, Capacity: 2, Price: money("80")},
		{ID: 2, Name: "Suite", UnitsNumber: 1, Capacity: 4, Price: money("150")},
	}
	units := []model.Unit{
		{ID: 11, RoomNumber: 101, CategoryID: 1},
		{ID: 12, RoomNumber: 102, CategoryID: 1},
		{ID: 21, RoomNumber: 201, CategoryID: 2},
	}
	return cats, units
}

func TestOverlapsHalfOpen(t *testing.T) {
	// back-to-back stays on the same unit share no night
	assert.False(t, Overlaps(
		date(2026, 3, 1), date(2026, 3, 5),
		date(2026, 3, 5), date(2026, 3, 8),
	))
	assert.True(t, Overlaps(
		date(2026, 3, 1), date(2026, 3, 5),
		date(2026, 3, 4), date(2026, 3, 6),
	))
	// identical ranges overlap
	assert.True(t, Overlaps(
		date(2026, 3, 1), date(2026, 3, 5),
		date(2026, 3, 1), date(2026, 3, 5),
	))
}

func TestFindAvailableCategoriesCapacityFilter(t *testing.T) {
	cats, units := fixture()
	got, err := FindAvailableCategories(StayRequest{
		DateFrom: date(2026, 7, 1), DateTo: date(2026, 7, 4), Persons: 3,
	}, cats, units, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].ID)
	for _, ac := range got {
		assert.GreaterOrEqual(t, ac.Capacity, 3)
	}
}

func TestFindAvailableCategoriesExcludesFullyBooked(t *testing.T) {
	cats, units := fixture()
	res := []model.Reservation{
		{ID: 1, CategoryID: 1, UnitID: uintPtr(11), DateFrom: date(2026, 7, 1), DateTo: date(2026, 7, 10), Status: model.StatusConfirmed},
		{ID: 2, CategoryID: 1, UnitID: uintPtr(12), DateFrom: date(2026, 7, 2), DateTo: date(2026, 7, 6), Status: model.StatusPending},
	}
	got, err := FindAvailableCategories(StayRequest{
		DateFrom: date(2026, 7, 3), DateTo: date(2026, 7, 5), Persons: 2,
	}, cats, units, res)
	require.NoError(t, err)
	// Standard is fully booked; only Suite remains
	require.Len(t, got, 1)
	assert.Equal(t, "Suite", got[0].Name)
}

func TestFindAvailableCategoriesRejectedNeverBlocks(t *testing.T) {
	cats, units := fixture()
	res := []model.Reservation{
		{ID: 1, CategoryID: 2, UnitID: uintPtr(21), DateFrom: date(2026, 7, 1), DateTo: date(2026, 7, 10), Status: model.StatusRejected},
	}
	got, err := FindAvailableCategories(StayRequest{
		DateFrom: date(2026, 7, 3), DateTo: date(2026, 7, 5), Persons: 4,
	}, cats, units, res)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].ID)
}

func TestFindAvailableCategoriesSameDayTurnover(t *testing.T) {
	cats, units := fixture()
	res := []model.Reservation{
		{ID: 1, CategoryID: 2, UnitID: uintPtr(21), DateFrom: date(2026, 3, 1), DateTo: date(2026, 3, 5), Status: model.StatusConfirmed},
	}
	// check-in on the existing checkout day must succeed
	got, err := FindAvailableCategories(StayRequest{
		DateFrom: date(2026, 3, 5), DateTo: date(2026, 3, 8), Persons: 4,
	}, cats, units, res)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].FreeUnits)
}

func TestFindAvailableCategoriesMaintenanceExcluded(t *testing.T) {
	cats, units := fixture()
	units[2].UnderMaintenance = true // suite's only unit
	got, err := FindAvailableCategories(StayRequest{
		DateFrom: date(2026, 7, 1), DateTo: date(2026, 7, 3), Persons: 4,
	}, cats, units, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindAvailableCategoriesUnassignedReservationShrinksPool(t *testing.T) {
	cats, units := fixture()
	// two pending reservations without units consume the whole Standard pool
	res := []model.Reservation{
		{ID: 1, CategoryID: 1, DateFrom: date(2026, 7, 1), DateTo: date(2026, 7, 5), Status: model.StatusPending},
		{ID: 2, CategoryID: 1, DateFrom: date(2026, 7, 2), DateTo: date(2026, 7, 6), Status: model.StatusPending},
	}
	got, err := FindAvailableCategories(StayRequest{
		DateFrom: date(2026, 7, 3), DateTo: date(2026, 7, 4), Persons: 1,
	}, cats, units, res)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Suite", got[0].Name)
}

func TestFindAvailableCategoriesOrderingAndIdempotence(t *testing.T) {
	cats := []model.Category{
		{ID: 3, Name: "B-Twin", UnitsNumber: 1, Capacity: 2, Price: money("90")},
		{ID: 1, Name: "A-Twin", UnitsNumber: 1, Capacity: 2, Price: money("90")},
		{ID: 2, Name: "Economy", UnitsNumber: 1, Capacity: 2, Price: money("60")},
	}
	units := []model.Unit{
		{ID: 1, RoomNumber: 1, CategoryID: 1},
		{ID: 2, RoomNumber: 2, CategoryID: 2},
		{ID: 3, RoomNumber: 3, CategoryID: 3},
	}
	stay := StayRequest{DateFrom: date(2026, 9, 1), DateTo: date(2026, 9, 3), Persons: 2}

	first, err := FindAvailableCategories(stay, cats, units, nil)
	require.NoError(t, err)
	second, err := FindAvailableCategories(stay, cats, units, nil)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, "Economy", first[0].Name) // cheapest first
	assert.Equal(t, "A-Twin", first[1].Name)  // price tie broken by name
	assert.Equal(t, "B-Twin", first[2].Name)
	assert.Equal(t, first, second)
}

func TestFindAvailableCategoriesInvalidRequest(t *testing.T) {
	cats, units := fixture()
	cases := []StayRequest{
		{DateFrom: date(2026, 5, 10), DateTo: date(2026, 5, 5), Persons: 2},  // end before start
		{DateFrom: date(2026, 5, 10), DateTo: date(2026, 5, 10), Persons: 2}, // zero nights
		{DateFrom: date(2026, 5, 1), DateTo: date(2026, 5, 5), Persons: 0},   // no guests
		{Persons: 2}, // missing dates
	}
	for _, stay := range cases {
		_, err := FindAvailableCategories(stay, cats, units, nil)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "stay %+v", stay)
	}
}

func TestFreeUnitsDeterministicOrder(t *testing.T) {
	_, units := fixture()
	res := []model.Reservation{
		{ID: 1, CategoryID: 1, UnitID: uintPtr(11), DateFrom: date(2026, 7, 1), DateTo: date(2026, 7, 5), Status: model.StatusConfirmed},
	}
	free := FreeUnits(1, date(2026, 7, 2), date(2026, 7, 4), units, res)
	require.Len(t, free, 1)
	assert.Equal(t, uint64(12), free[0].ID)

	// outside the booked window both units are free, ordered by room number
	free = FreeUnits(1, date(2026, 7, 10), date(2026, 7, 12), units, res)
	require.Len(t, free, 2)
	assert.Equal(t, 101, free[0].RoomNumber)
	assert.Equal(t, 102, free[1].RoomNumber)
}

func TestComputePriceBaseOnly(t *testing.T) {
	cat := model.Category{ID: 1, Name: "Standard", Price: money("100")}
	got, err := ComputePrice(cat, date(2026, 1, 1), date(2026, 1, 4), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Nights)
	assert.True(t, got.BaseTotal.Equal(money("300")), "base=%s", got.BaseTotal)
	assert.True(t, got.AmenitiesTotal.IsZero())
	assert.True(t, got.Total.Equal(money("300")), "total=%s", got.Total)
}

func TestComputePriceWithAmenities(t *testing.T) {
	cat := model.Category{ID: 1, Name: "Standard", Price: money("50")}
	catalog := []model.Amenity{{ID: 1, Name: "Breakfast", Price: money("10")}}
	got, err := ComputePrice(cat,
		date(2026, 6, 1), date(2026, 6, 2),
		[]model.AmenitySelection{{AmenityID: 1, Quantity: 2}},
		catalog)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Nights)
	assert.True(t, got.BaseTotal.Equal(money("50")))
	assert.True(t, got.AmenitiesTotal.Equal(money("20")))
	assert.True(t, got.Total.Equal(money("70")))
}

func TestComputePriceExactDecimal(t *testing.T) {
	// a rate that accumulates drift under float64 must stay exact
	cat := model.Category{ID: 1, Name: "Odd", Price: money("33.33")}
	got, err := ComputePrice(cat, date(2026, 1, 1), date(2026, 1, 31), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Nights)
	assert.Equal(t, "999.90", got.Total.StringFixed(2))
}

func TestComputePriceSameDayFloorsToOneNight(t *testing.T) {
	cat := model.Category{ID: 1, Name: "Standard", Price: money("80")}
	got, err := ComputePrice(cat, date(2026, 4, 1), date(2026, 4, 1), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Nights)
	assert.True(t, got.Total.Equal(money("80")))
}

func TestComputePriceUnknownAmenityFailsClosed(t *testing.T) {
	cat := model.Category{ID: 1, Name: "Standard", Price: money("50")}
	catalog := []model.Amenity{{ID: 1, Name: "Breakfast", Price: money("10")}}
	_, err := ComputePrice(cat,
		date(2026, 6, 1), date(2026, 6, 3),
		[]model.AmenitySelection{{AmenityID: 999, Quantity: 1}},
		catalog)
	var aerr *InvalidAmenityError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, uint64(999), aerr.AmenityID)
}

func TestComputePriceRejectsNonPositiveQuantity(t *testing.T) {
	cat := model.Category{ID: 1, Name: "Standard", Price: money("50")}
	catalog := []model.Amenity{{ID: 1, Name: "Breakfast", Price: money("10")}}
	for _, qty := range []int{0, -2} {
		_, err := ComputePrice(cat,
			date(2026, 6, 1), date(2026, 6, 3),
			[]model.AmenitySelection{{AmenityID: 1, Quantity: qty}},
			catalog)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "quantity %d", qty)
	}
}

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryReqToModel(t *testing.T) {
	valid := categoryReq{
		Name:        "Deluxe",
		UnitsNumber: 4,
		Capacity:    2,
		Price:       "120.00",
		CheckIn:     "14:00",
		CheckOut:    "10:00",
	}
	cat, msg := valid.toModel()
	require.Empty(t, msg)
	assert.Equal(t, "Deluxe", cat.Name)
	assert.Equal(t, 4, cat.UnitsNumber)
	assert.Equal(t, 2, cat.Capacity)
	assert.Equal(t, "120.00", cat.Price.StringFixed(2))
}

func TestCategoryReqRejectsNonPositiveUnitsNumber(t *testing.T) {
	for _, n := range []int{0, -3} {
		req := categoryReq{Name: "Deluxe", UnitsNumber: n, Capacity: 2, Price: "120.00"}
		cat, msg := req.toModel()
		assert.Nil(t, cat)
		assert.Equal(t, "units_number must be at least 1", msg)
	}
}

func TestCategoryReqRejectsBadFields(t *testing.T) {
	req := categoryReq{Name: "  ", UnitsNumber: 1, Capacity: 2, Price: "80.00"}
	cat, msg := req.toModel()
	assert.Nil(t, cat)
	assert.Equal(t, "name is required", msg)

	req = categoryReq{Name: "Standard", UnitsNumber: 1, Capacity: 0, Price: "80.00"}
	cat, msg = req.toModel()
	assert.Nil(t, cat)
	assert.Equal(t, "capacity must be at least 1", msg)

	req = categoryReq{Name: "Standard", UnitsNumber: 1, Capacity: 2, Price: "-5"}
	cat, msg = req.toModel()
	assert.Nil(t, cat)
	assert.Equal(t, "price must be a non-negative decimal", msg)

	req = categoryReq{Name: "Standard", UnitsNumber: 1, Capacity: 2, Price: "cheap"}
	cat, msg = req.toModel()
	assert.Nil(t, cat)
	assert.Equal(t, "price must be a non-negative decimal", msg)
}

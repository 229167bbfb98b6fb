package utils_test

import (
	"testing"

	"billing-backend/utils"

	"github.com/stretchr/testify/assert"
)

type sampleDTO struct {
	Name   string
	Note   *string
	Phones []string
}

type samplePatch struct {
	ShipTo  *string `json:"shipTo"`
	BillTo  *string `json:"billTo"`
	Secret  *string `json:"-"`
	Ignored string
}

func TestNormalizeDTO(t *testing.T) {
	note := "  hi "
	dto := sampleDTO{Name: "  Acme ", Note: &note, Phones: []string{" 1 ", "", "  "}}
	utils.NormalizeDTO(&dto)

	assert.Equal(t, "Acme", dto.Name)
	assert.Equal(t, "hi", *dto.Note)
	assert.Equal(t, []string{"1"}, dto.Phones)
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	ship, secret := " Dock 4 ", "x"
	got := utils.UpdatesFromPtrDTO(&samplePatch{ShipTo: &ship, Secret: &secret, Ignored: "y"})
	assert.Equal(t, map[string]any{"ship_to": "Dock 4"}, got)
}

func TestParseInt64(t *testing.T) {
	n, ok := utils.ParseInt64(" 42 ")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = utils.ParseInt64("4.2")
	assert.False(t, ok)
}

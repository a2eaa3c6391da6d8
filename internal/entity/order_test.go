package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderSizeTotal(t *testing.T) {
	order := Order{SizeXS: 1, SizeS: 2, SizeM: 3, SizeXL: 4}
	assert.Equal(t, 10, order.SizeTotal())
}

func TestOrderStatus(t *testing.T) {
	order := Order{}
	assert.Equal(t, "pending", order.Status())

	done := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	order.CompletionDate = &done
	assert.Equal(t, "selesai", order.Status())
}

func TestWeightRemainder(t *testing.T) {
	step := ProductionStep{}
	assert.Nil(t, step.WeightRemainder())

	before, after := 12.5, 10.0
	step.WeightBefore = &before
	assert.Nil(t, step.WeightRemainder())

	step.WeightAfter = &after
	remainder := step.WeightRemainder()
	assert.NotNil(t, remainder)
	assert.InDelta(t, 2.5, *remainder, 1e-9)
}

func TestStepCatalogShape(t *testing.T) {
	assert.Len(t, StepCatalog, StepCount)
	for i, def := range StepCatalog {
		assert.Equal(t, i+1, def.Number)
		assert.NotEmpty(t, def.Name)
	}
	assert.True(t, StepCatalog[2].HasWeight)
	assert.True(t, StepCatalog[7].HasStitch)
}

func TestEmployeeHasCredentials(t *testing.T) {
	assert.False(t, (&Employee{}).HasCredentials())
	assert.False(t, (&Employee{Username: "budi"}).HasCredentials())
	assert.True(t, (&Employee{Username: "budi", Password: "hash"}).HasCredentials())
}

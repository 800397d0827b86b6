package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubClassString(t *testing.T) {
	assert.Equal(t, "single_stock", SubClassSingleStock.String())
	assert.Equal(t, "unclassified", SubClassUnclassified.String())
	assert.Equal(t, "unclassified", SubClass(99).String())
}

func TestSubClassFromName(t *testing.T) {
	for code, name := range subClassNames {
		assert.Equal(t, code, SubClassFromName(name))
	}
	assert.Equal(t, SubClassUnclassified, SubClassFromName("structured_product"))
}

func TestSubClassValid(t *testing.T) {
	assert.True(t, SubClassCash.Valid())
	assert.True(t, SubClassUnclassified.Valid())
	assert.False(t, SubClass(99).Valid())
}

func TestIsSecurity(t *testing.T) {
	cash := PositionRecord{IsCash: true}
	stock := PositionRecord{}
	assert.False(t, cash.IsSecurity())
	assert.True(t, stock.IsSecurity())
}

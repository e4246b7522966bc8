package bmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	assert.Equal(t, 22.9, Calculate(70, 175))
	assert.Equal(t, 0.0, Calculate(0, 175))
	assert.Equal(t, 0.0, Calculate(70, 0))
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, Underweight, Categorize(18.4))
	assert.Equal(t, Normal, Categorize(18.5))
	assert.Equal(t, Normal, Categorize(22.9))
	assert.Equal(t, Overweight, Categorize(23))
	assert.Equal(t, Obese, Categorize(25))
	assert.Equal(t, SeverelyObese, Categorize(30))
}

func TestCharacterLevel(t *testing.T) {
	assert.Equal(t, 1, CharacterLevel(16.9))
	assert.Equal(t, 2, CharacterLevel(17.0))
	assert.Equal(t, 3, CharacterLevel(18.5))
	assert.Equal(t, 4, CharacterLevel(23.0))
	assert.Equal(t, 5, CharacterLevel(25.0))
}

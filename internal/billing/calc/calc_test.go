package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineBasic(t *testing.T) {
	// 2 x 1000 @ 17% -> subtotal 2000, tax 340, total 2340
	line := Line(2, 1000, 17)
	assert.Equal(t, 2000.0, line.Subtotal)
	assert.Equal(t, 340.0, line.TaxAmount)
	assert.Equal(t, 2340.0, line.LineTotal)
}

func TestLineZeroTax(t *testing.T) {
	line := Line(3, 99.99, 0)
	assert.Equal(t, 299.97, line.Subtotal)
	assert.Equal(t, 0.0, line.TaxAmount)
	assert.Equal(t, 299.97, line.LineTotal)
}

func TestLineFractionalRounding(t *testing.T) {
	// 1 x 0.10 @ 15% -> tax 0.015 rounds to 0.02
	line := Line(1, 0.10, 15)
	assert.Equal(t, 0.10, line.Subtotal)
	assert.Equal(t, 0.02, line.TaxAmount)
	assert.Equal(t, 0.12, line.LineTotal)
}

func TestLineNoFloatDrift(t *testing.T) {
	// The classic 0.1+0.2 style drift must not appear.
	line := Line(3, 0.1, 0)
	assert.Equal(t, 0.3, line.Subtotal)
	assert.Equal(t, 0.3, line.LineTotal)
}

func TestDocumentEmpty(t *testing.T) {
	doc := Document(nil, 0)
	assert.Equal(t, 0.0, doc.Subtotal)
	assert.Equal(t, 0.0, doc.TaxAmount)
	assert.Equal(t, 0.0, doc.Total)
}

func TestDocumentAggregation(t *testing.T) {
	lines := []LineAmounts{
		Line(2, 1000, 17),
		Line(5, 200, 10),
	}
	doc := Document(lines, 0)
	assert.Equal(t, 3000.0, doc.Subtotal)
	assert.Equal(t, 440.0, doc.TaxAmount)
	assert.Equal(t, 3440.0, doc.Total)
}

func TestDocumentDiscount(t *testing.T) {
	lines := []LineAmounts{Line(2, 1000, 17)}
	doc := Document(lines, 340)
	assert.Equal(t, 2000.0, doc.Subtotal)
	assert.Equal(t, 340.0, doc.TaxAmount)
	assert.Equal(t, 2000.0, doc.Total)
}

func TestDocumentRepeatedRecomputeStable(t *testing.T) {
	lines := []LineAmounts{Line(7, 33.33, 17)}
	first := Document(lines, 1.5)
	for i := 0; i < 100; i++ {
		again := Document([]LineAmounts{Line(7, 33.33, 17)}, 1.5)
		assert.Equal(t, first, again)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -1.24, Round2(-1.235))
}

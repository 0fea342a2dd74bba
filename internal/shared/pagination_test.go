package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/clients", nil)
	p := ParsePage(r)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestParsePageClampsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/clients?limit=10000&offset=20", nil)
	p := ParsePage(r)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 20, p.Offset)
}

func TestParsePageIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/clients?limit=abc&offset=-5", nil)
	p := ParsePage(r)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

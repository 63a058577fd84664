package carscom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTitle(t *testing.T) {
	year, model, trim := parseTitle("2010 Porsche Cayman S")
	require.NotNil(t, year)
	assert.Equal(t, 2010, *year)
	assert.Equal(t, "Cayman", model)
	assert.Equal(t, "S", trim)
}

func TestParseTitleBaseTrim(t *testing.T) {
	year, model, trim := parseTitle("2011 Porsche Boxster")
	require.NotNil(t, year)
	assert.Equal(t, 2011, *year)
	assert.Equal(t, "Boxster", model)
	assert.Equal(t, "", trim)
}

func TestParseTitleMultiWordTrim(t *testing.T) {
	_, model, trim := parseTitle("  2012 Porsche Boxster Spyder ")
	assert.Equal(t, "Boxster", model)
	assert.Equal(t, "Spyder", trim)
}

func TestParseTitleUnrecognized(t *testing.T) {
	year, model, trim := parseTitle("Certified Pre-Owned Vehicle")
	assert.Nil(t, year)
	assert.Equal(t, "", model)
	assert.Equal(t, "", trim)
}

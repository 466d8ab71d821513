package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLocales("en-US")

	assert.Equal("label done missing", From("label %v missing", "done"))
	assert.Equal("7", From("%d", 7))
}

func TestSetLocales_Empty(t *testing.T) {
	assert := assert.New(t)

	SetLocales()
	assert.Equal("plain", From("plain"))
}

package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLocales()
	assert.Equal("stream closed", From("stream closed"))
	assert.Equal("read-char: 3 bytes", From("%s: %d bytes", "read-char", 3))

	SetLocales("fr-FR", "en-US")
	assert.Equal("eof", From("eof"))
}

//go:build darwin

package macos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTextReturned(t *testing.T) {
	assert.Equal(t, "hello", parseTextReturned("button returned:OK, text returned:hello\n"))
	assert.Equal(t, "123 456", parseTextReturned("button returned:OK, text returned:123 456\n"))
	assert.Equal(t, "", parseTextReturned("button returned:OK\n"))
}

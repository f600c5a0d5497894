package saferepr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReprString(t *testing.T) {
	assert.Equal(t, `'hello'`, Repr("hello"))
}

func TestReprEscapesInjectionAttempt(t *testing.T) {
	got := Repr("foo'); bar()")
	assert.Equal(t, `'foo\'); bar()'`, got)
}

func TestReprNumbersAndBool(t *testing.T) {
	assert.Equal(t, "42", Repr(42))
	assert.Equal(t, "1.5", Repr(1.5))
	assert.Equal(t, "3.0", Repr(3.0))
	assert.Equal(t, "True", Repr(true))
	assert.Equal(t, "False", Repr(false))
	assert.Equal(t, "None", Repr(nil))
}

func TestReprListAndMap(t *testing.T) {
	assert.Equal(t, "[1, 2, 3]", Repr([]any{1, 2, 3}))
	assert.Equal(t, "{'x': 1, 'y': 2}", Repr(map[string]any{"y": 2, "x": 1}))
}

func TestReprControlCharacters(t *testing.T) {
	assert.Equal(t, `'a\nb'`, Repr("a\nb"))
}

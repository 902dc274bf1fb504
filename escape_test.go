package evx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotedString(t *testing.T) {
	cases := []struct {
		in   string
		bstr bool
		want string
	}{
		{"plain", false, `"plain"`},
		{"tab\there", false, `"tab\there"`},
		{`back\slash`, false, `"back\\slash"`},
		{"quo\"te", false, `"quo\"te"`},
		{"new\nline", false, `"new\nline"`},
		{"\x01", false, `"\x01"`},
		{"\xff", true, `"\xff"`},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, QuotedString([]byte(c.in), c.bstr), "%q", c.in)
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("abc"))
	assert.True(t, IsIdentifier("_a1"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("1a"))
	assert.False(t, IsIdentifier("a-b"))
}

func TestQuotedName(t *testing.T) {
	assert.Equal(t, "field", QuotedName("field"))
	assert.Equal(t, `"odd name"`, QuotedName("odd name"))
}

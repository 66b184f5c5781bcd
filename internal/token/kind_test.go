package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordLookup(t *testing.T) {
	k, ok := LookupKeyword("namespace")
	assert.True(t, ok)
	assert.Equal(t, KwNamespace, k)

	_, ok = LookupKeyword("Namespace")
	assert.False(t, ok, "keywords are case sensitive")

	assert.Equal(t, "'->'", Arrow.String())
	assert.Equal(t, "unknown", Kind(250).String())
}

package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefSpecConstructors(t *testing.T) {
	assert.Equal(t, RefSpec{Ref: "abc"}, OrgRef("abc"))
	assert.Equal(t, RefSpec{Ref: "42", Type: RefTypeCompany}, LocationRef(42, RefTypeCompany))
	assert.Equal(t, RefSpec{Ref: "global"}, GlobalRef())
}

func TestRefSpecIsGlobal(t *testing.T) {
	assert.True(t, GlobalRef().IsGlobal())
	assert.False(t, OrgRef("abc").IsGlobal())
	assert.False(t, OrgRef("123").IsGlobal())

	// A location named "global" is still a location, not the global
	// pseudo-reference.
	assert.False(t, RefSpec{Ref: "global", Type: RefTypeCompany}.IsGlobal())
}

func TestRefSpecRawKey(t *testing.T) {
	assert.Equal(t, "abc", OrgRef("abc").RawKey())
	assert.Equal(t, "company:42", LocationRef(42, RefTypeCompany).RawKey())
	assert.Equal(t, "vendor:7", LocationRef(7, RefTypeVendor).RawKey())
	assert.Equal(t, "global", GlobalRef().RawKey())
}

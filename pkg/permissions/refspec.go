package permissions

import "strconv"

// RefType tags a numeric location reference with its kind.
type RefType string

const (
	RefTypeCompany RefType = "company"
	RefTypeVendor  RefType = "vendor"
)

// globalRef is the literal pseudo-reference that carries a person's
// globally granted scopes.
const globalRef = "global"

// RefSpec identifies the target of one permission check: an opaque org
// ref, a (location id, location type) pair, or the global reference.
// Type is set if and only if Ref is a bare integer location id.
//
// RefSpec values are constructed per call and never mutated.
type RefSpec struct {
	Ref  string
	Type RefType
}

// OrgRef builds a RefSpec for an opaque org reference (usually a UUID).
func OrgRef(ref string) RefSpec {
	return RefSpec{Ref: ref}
}

// LocationRef builds a RefSpec for a numeric location id of the given type.
func LocationRef(id int, typ RefType) RefSpec {
	return RefSpec{Ref: strconv.Itoa(id), Type: typ}
}

// GlobalRef builds the RefSpec for the global pseudo-reference.
func GlobalRef() RefSpec {
	return RefSpec{Ref: globalRef}
}

// IsGlobal reports whether the spec targets the global reference.
func (s RefSpec) IsGlobal() bool {
	return s.Ref == globalRef && s.Type == ""
}

// RawKey returns the reference key as it appears in a fetched
// permissions document: "{type}:{id}" for located refs, the bare ref
// otherwise.
func (s RefSpec) RawKey() string {
	if s.Type != "" {
		return string(s.Type) + ":" + s.Ref
	}
	return s.Ref
}

func (s RefSpec) String() string { return s.RawKey() }

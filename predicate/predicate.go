// Package predicate describes the revision checks a transaction evaluates
// before choosing its branch.
package predicate

// Predicate compares the revision of a key with a fixed value.
// A key that does not exist has revision 0.
type Predicate struct {
	key     []byte
	op      Op
	version int64
}

// Key returns the key the predicate applies to.
func (p Predicate) Key() []byte {
	return p.key
}

// Operation returns the comparison operator.
func (p Predicate) Operation() Op {
	return p.op
}

// Version returns the revision the key is compared with.
func (p Predicate) Version() int64 {
	return p.version
}

// Holds reports whether a key currently at revision current satisfies p.
func (p Predicate) Holds(current int64) bool {
	switch p.op {
	case OpEqual:
		return current == p.version
	case OpNotEqual:
		return current != p.version
	case OpGreater:
		return current > p.version
	case OpLess:
		return current < p.version
	default:
		return false
	}
}

// VersionEqual holds when the revision of key equals version.
func VersionEqual(key []byte, version int64) Predicate {
	return Predicate{key: key, op: OpEqual, version: version}
}

// VersionNotEqual holds when the revision of key differs from version.
func VersionNotEqual(key []byte, version int64) Predicate {
	return Predicate{key: key, op: OpNotEqual, version: version}
}

// VersionGreater holds when the revision of key is greater than version.
func VersionGreater(key []byte, version int64) Predicate {
	return Predicate{key: key, op: OpGreater, version: version}
}

// VersionLess holds when the revision of key is less than version.
func VersionLess(key []byte, version int64) Predicate {
	return Predicate{key: key, op: OpLess, version: version}
}

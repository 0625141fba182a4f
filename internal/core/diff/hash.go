package diff

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

// identityFields are checked in order when hashing objects.
var identityFields = []string{"id", "name", "_id"}

// HashFunc maps an array element to the identity used to match it between
// the old and the new array.
type HashFunc func(v jsonvalue.Value) string

// ObjectHash is the default HashFunc. Objects carrying an id, name or _id
// member are identified by that member's string form; every other value by
// a digest of its canonical serialization.
func ObjectHash(v jsonvalue.Value) string {
	if v.Kind() == jsonvalue.KindObject {
		for _, field := range identityFields {
			if f, ok := v.Get(field); ok {
				if f.Kind() == jsonvalue.KindString {
					return f.AsString()
				}
				return jsonvalue.Format(f, jsonvalue.Minified)
			}
		}
	}
	return strconv.FormatUint(xxhash.Sum64String(jsonvalue.Canonical(v)), 16)
}

// matchKey keeps objects and non-objects in separate namespaces so an
// object with id 1 never pairs with the number 1.
func matchKey(hash HashFunc, v jsonvalue.Value) string {
	if v.Kind() == jsonvalue.KindObject {
		return "o:" + hash(v)
	}
	return "v:" + hash(v)
}

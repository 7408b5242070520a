package util

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
)

const maxScopeLen = 64

// EntryKey returns "<prefix>:<scope>:<id>". Scopes that are long or contain
// the ':' separator are replaced by a short hash so keys stay unambiguous.
func EntryKey(prefix, scope string, id int32) string {
	if len(scope) > maxScopeLen || strings.Contains(scope, ":") {
		sum := sha256.Sum256([]byte(scope))
		scope = fmt.Sprintf("h%x", sum[:8])
	}
	return prefix + ":" + scope + ":" + strconv.FormatInt(int64(id), 10)
}

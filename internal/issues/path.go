package issues

import (
	"strconv"
	"strings"
	"sync"
)

var stringBuilderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

// getStringBuilder retrieves a builder from the pool and resets it.
func getStringBuilder() *strings.Builder {
	sb := stringBuilderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

// putStringBuilder returns a builder to the pool.
func putStringBuilder(sb *strings.Builder) {
	if sb == nil {
		return
	}
	stringBuilderPool.Put(sb)
}

// ChildPath extends a value path with a property name ("prefix.name").
// An empty prefix yields ".name", locating a root-level property.
func ChildPath(prefix, name string) string {
	sb := getStringBuilder()
	sb.WriteString(prefix)
	sb.WriteByte('.')
	sb.WriteString(name)
	result := sb.String()
	putStringBuilder(sb)
	return result
}

// IndexPath extends a value path with an array index ("prefix[i]").
func IndexPath(prefix string, index int) string {
	sb := getStringBuilder()
	sb.WriteString(prefix)
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(index))
	sb.WriteByte(']')
	result := sb.String()
	putStringBuilder(sb)
	return result
}

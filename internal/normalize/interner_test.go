package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(in *Interner) []string {
	var out []string
	for _, l := range in.Labels() {
		if l == nil {
			out = append(out, "<null>")
			continue
		}
		out = append(out, *l)
	}
	return out
}

func TestInternerReusesIDs(t *testing.T) {
	in := NewInterner()

	assert.Equal(t, 1, in.InternOrAssign("Central"))
	assert.Equal(t, 2, in.InternOrAssign("Hollywood"))
	assert.Equal(t, 1, in.InternOrAssign("Central"))
	assert.Equal(t, 3, in.InternOrAssign("Pacific"))
	assert.Equal(t, 2, in.InternOrAssign("Hollywood"))

	assert.Equal(t, 3, in.Len())
	assert.Equal(t, []string{"Central", "Hollywood", "Pacific"}, values(in))
}

func TestInternerLabelsIsCopy(t *testing.T) {
	in := NewInterner()
	in.InternOrAssign("a")
	v := in.Labels()
	*v[0] = "b"
	assert.Equal(t, []string{"a"}, values(in))
}

func TestInternerCaseSensitive(t *testing.T) {
	in := NewInterner()
	assert.NotEqual(t, in.InternOrAssign("central"), in.InternOrAssign("Central"))
}

func TestInternerNullIsSeparateFromNullMarker(t *testing.T) {
	in := NewInterner()

	marker := in.InternOrAssign(NullMarker)
	null := in.InternNull()
	assert.NotEqual(t, marker, null)
	assert.Equal(t, null, in.InternNull())
	assert.Equal(t, 2, in.Len())

	labels := in.Labels()
	require.Len(t, labels, 2)
	require.NotNil(t, labels[0])
	assert.Equal(t, NullMarker, *labels[0])
	assert.Nil(t, labels[1])
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"trout", "trout", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"", "", 0},
		{"flash", "flask", 1},
		{"ab", "ba", 2},
	}

	for _, tc := range tests {
		t.Run(tc.a+"/"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, levenshtein(tc.a, tc.b))
			assert.Equal(t, tc.want, levenshtein(tc.b, tc.a))
		})
	}
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, nameSimilarity("trout", "trout"))
	assert.Equal(t, 0.0, nameSimilarity("", "abc"))
	assert.Equal(t, 0.0, nameSimilarity("abc", ""))

	// similarity = (max - distance) / max
	assert.InDelta(t, 4.0/7.0, nameSimilarity("kitten", "sitting"), 1e-9)
}

func TestNameSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"mike trout", "mike trout"},
		{"mike trout", "lebron james"},
		{"a", "completely different name"},
	}
	for _, p := range pairs {
		sim := nameSimilarity(p[0], p[1])
		assert.GreaterOrEqual(t, sim, 0.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Mike Trout", "mike trout"},
		{"  Mike   Trout ", "mike trout"},
		{"José Ramírez", "jose ramirez"},
		{"VLADIMIR GUERRERO", "vladimir guerrero"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, normalizeName(tc.in))
	}
}

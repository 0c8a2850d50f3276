package remote

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain", "Garden Tools", "garden-tools"},
		{"Accents", "Kamina- ja ahjutarvikud", "kamina-ja-ahjutarvikud"},
		{"Estonian", "Õuemööbel", "ouemoobel"},
		{"Punctuation", "Printimine, kopeerimine & faks", "printimine-kopeerimine-faks"},
		{"Empty", "!!!", "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}

	long := Slugify(strings.Repeat("abc ", 30))
	assert.LessOrEqual(t, len(long), 45)
	assert.False(t, strings.HasSuffix(long, "-"))
}

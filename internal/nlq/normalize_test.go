package nlq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"accents stripped", "Forêt dégradée", "foret degradee"},
		{"uppercase accent", "TENÉ", "tene"},
		{"grave accent", "zouèké", "zoueke"},
		{"already plain", "sangoue 2023", "sangoue 2023"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("montre-moi tene, doka et sangoue !")
	assert.Equal(t, []string{"montre", "moi", "tene", "doka", "et", "sangoue"}, got)
}

func TestTokenizeKeepsDigits(t *testing.T) {
	got := Tokenize("compare 1986 et 2023")
	assert.Equal(t, []string{"compare", "1986", "et", "2023"}, got)
}

package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchCategories(t *testing.T) {
	cases := []struct {
		message string
		want    []string
	}{
		{"Ich suche ein Geschenk zum Jahrestag", []string{"gifts"}},
		{"Welches Parfüm passt zu einem Date?", []string{"beauty"}},
		{"Schmuck oder Blumen zum Valentinstag?", []string{"gifts", "jewelry"}},
		{"Hallo, wie geht es dir?", nil},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, MatchCategories(c.message), "message=%q", c.message)
	}
}

func TestMatchCategories_OrderedByHits(t *testing.T) {
	got := MatchCategories("Geschenk: Blumen schenken zum Jahrestag, oder doch eine Kette?")
	assert.Equal(t, "gifts", got[0])
}

func TestBuildReply_Empty(t *testing.T) {
	reply := BuildReply(nil)
	assert.Contains(t, reply, "keine passenden Produkte")
}

func TestBuildReply_ListsProducts(t *testing.T) {
	price := 2999
	reply := BuildReply([]*Product{
		{Name: "Rote Rosen", PriceCents: &price},
		{Name: "Pralinen"},
	})

	assert.Contains(t, reply, "1. Rote Rosen – 29.99€")
	assert.Contains(t, reply, "2. Pralinen")
}

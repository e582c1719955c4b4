package advisor

import (
	"fmt"
	"sort"
	"strings"
)

// categoryKeywords routes free-text questions to product categories. The
// assistant is retrieval-backed: it matches keywords, it does not generate.
var categoryKeywords = map[string][]string{
	"beauty":      {"beauty", "parfüm", "parfum", "duft", "makeup", "make-up", "kosmetik", "pflege"},
	"fashion":     {"mode", "fashion", "kleid", "outfit", "schuhe", "style", "anziehen"},
	"gifts":       {"geschenk", "gift", "überraschung", "blumen", "schenken", "jahrestag", "valentinstag"},
	"electronics": {"technik", "elektronik", "gadget", "kopfhörer", "smartwatch", "kamera"},
	"jewelry":     {"schmuck", "kette", "armband", "ring", "halskette"},
}

// MatchCategories returns the categories a message touches, most-hit first.
func MatchCategories(message string) []string {
	msg := strings.ToLower(message)

	type hit struct {
		category string
		count    int
	}
	var hits []hit
	for category, words := range categoryKeywords {
		n := 0
		for _, w := range words {
			if strings.Contains(msg, w) {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, hit{category, n})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].category < hits[j].category
	})

	if len(hits) == 0 {
		return nil
	}
	categories := make([]string, 0, len(hits))
	for _, h := range hits {
		categories = append(categories, h.category)
	}
	return categories
}

// BuildReply renders the assistant's answer for a set of recommendations.
func BuildReply(products []*Product) string {
	if len(products) == 0 {
		return "Dazu habe ich leider noch keine passenden Produkte gefunden. " +
			"Frag mich zum Beispiel nach Geschenkideen, Beauty-Produkten oder Schmuck!"
	}

	var b strings.Builder
	b.WriteString("Hier sind meine Empfehlungen für dich:\n")
	for i, p := range products {
		b.WriteString(fmt.Sprintf("%d. %s", i+1, p.Name))
		if p.PriceCents != nil {
			b.WriteString(fmt.Sprintf(" – %.2f€", float64(*p.PriceCents)/100))
		}
		b.WriteString("\n")
	}
	return b.String()
}

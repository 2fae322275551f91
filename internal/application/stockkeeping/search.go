package stockkeeping

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSearchTerm pliega el término de búsqueda para compararlo: sin tildes,
// en minúsculas y con espacios colapsados. "  Camisa  AZÚL " → "camisa azul".
func NormalizeSearchTerm(term string) string {
	// El Transformer encadenado guarda estado: uno nuevo por llamada.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, term)
	if err != nil {
		folded = term
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

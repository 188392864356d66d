// Package normalize implementa el plegado de texto usado por la búsqueda local
// de los listados: insensible a mayúsculas y a diacríticos, porque los datos
// maestros del ERP vienen en español ("Almacén", "Recepción").
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldChain = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)), // elimina marcas combinantes (tildes, diéresis)
	norm.NFC,
)

// Fold devuelve el texto en minúsculas y sin diacríticos.
// Si la transformación falla (entrada no UTF-8 válida), cae a minúsculas simples.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// ContainsFold indica si needle aparece dentro de haystack comparando con Fold.
// Needle vacío siempre coincide.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

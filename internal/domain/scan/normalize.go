// Package scan contiene la lógica del lector: normalización del texto escaneado
// y el guardián del modo de operación (ADD/REMOVE) con ventana de inactividad.
package scan

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
)

// Normalize limpia el texto leído: espacios, ancho completo (algunos lectores en modo IME
// envían ＡＢＣ１２３) y mayúsculas. El resultado nunca comparte memoria con raw: fiber
// entrega strings que apuntan a buffers que se reutilizan entre peticiones.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = width.Fold.String(s)
	// cases.Caser guarda estado: uno por llamada.
	return strings.Clone(cases.Upper(language.Und).String(strings.TrimSpace(s)))
}

// Kind clasifica una lectura ya normalizada.
type Kind int

const (
	KindEmpty Kind = iota
	KindCommand
	KindBarcode
)

// Input resultado de clasificar una lectura.
type Input struct {
	Kind      Kind
	Operation entity.Operation // solo para KindCommand
	Barcode   string           // solo para KindBarcode
}

// Classify normaliza y decide si la lectura es un comando de modo o un código.
func Classify(raw string) Input {
	s := Normalize(raw)
	if s == "" {
		return Input{Kind: KindEmpty}
	}
	if op, ok := entity.ParseOperation(s); ok {
		return Input{Kind: KindCommand, Operation: op}
	}
	return Input{Kind: KindBarcode, Barcode: s}
}

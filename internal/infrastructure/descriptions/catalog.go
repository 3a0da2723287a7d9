// Package descriptions carga el catálogo código → descripción usado al crear entradas.
// El catálogo se lee una sola vez al iniciar y después es de solo lectura.
package descriptions

import (
	"github.com/jhoicas/Inventario-scanner/internal/domain/repository"
	"github.com/jhoicas/Inventario-scanner/internal/domain/scan"
)

var _ repository.DescriptionLookup = Catalog(nil)

// Catalog mapa inmutable con claves normalizadas.
type Catalog map[string]string

// NewCatalog normaliza claves y descarta descripciones vacías.
func NewCatalog(raw map[string]string) Catalog {
	c := make(Catalog, len(raw))
	for k, v := range raw {
		c.add(k, v)
	}
	return c
}

func (c Catalog) add(barcode, desc string) {
	key := scan.Normalize(barcode)
	if key == "" || desc == "" {
		return
	}
	c[key] = desc
}

// Lookup busca la descripción de un código ya normalizado.
func (c Catalog) Lookup(barcode string) (string, bool) {
	d, ok := c[barcode]
	return d, ok
}

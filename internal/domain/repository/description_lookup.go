package repository

// DescriptionLookup catálogo de solo lectura código → descripción.
// Se carga una vez al inicio; puede compartirse sin sincronización.
type DescriptionLookup interface {
	Lookup(barcode string) (string, bool)
}

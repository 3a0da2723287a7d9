package entity

// Operation es la interpretación que se aplica a los escaneos (value object).
type Operation string

// Operaciones soportadas por el lector.
const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
)

// ParseOperation convierte texto ya normalizado en Operation.
func ParseOperation(s string) (Operation, bool) {
	switch Operation(s) {
	case OperationAdd:
		return OperationAdd, true
	case OperationRemove:
		return OperationRemove, true
	}
	return "", false
}

// Valid indica si la operación es ADD o REMOVE.
func (o Operation) Valid() bool {
	_, ok := ParseOperation(string(o))
	return ok
}

package ledger

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// keyedMutex serializa operaciones por código de barras usando franjas fijas
// (dos códigos pueden compartir franja; nunca un código dos franjas).
type keyedMutex struct {
	stripes [lockStripes]sync.Mutex
}

// Lock bloquea la franja del código y devuelve la función de liberación.
func (k *keyedMutex) Lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &k.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

// LockAll bloquea todas las franjas en orden fijo (operaciones sobre el libro completo).
func (k *keyedMutex) LockAll() func() {
	for i := range k.stripes {
		k.stripes[i].Lock()
	}
	return func() {
		for i := len(k.stripes) - 1; i >= 0; i-- {
			k.stripes[i].Unlock()
		}
	}
}

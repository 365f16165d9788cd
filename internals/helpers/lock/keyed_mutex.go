// file: internals/helpers/lock/keyed_mutex.go
package lock

import "sync"

// KeyedMutex: mutual exclusion per key (mis. per order_id / per invoice_id).
// Dua key berbeda tidak saling blok; key sama diserialisasi.
// Entry dihapus lagi saat refcount kembali 0 supaya map tidak tumbuh terus.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

// Lock menahan key sampai fungsi unlock yang dikembalikan dipanggil.
// Pemanggil WAJIB defer unlock() di semua jalur keluar.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}

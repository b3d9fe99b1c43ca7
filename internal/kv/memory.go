package kv

// MemoryStore keeps values in a map. It does not survive the process.
type MemoryStore struct {
	values map[string]string
	closed bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	if m.closed {
		return "", false, ErrClosed
	}
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	if m.closed {
		return ErrClosed
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	if m.closed {
		return ErrClosed
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Close() error {
	m.closed = true
	return nil
}

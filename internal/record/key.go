package record

// Key holds the primary key of a persisted entity. Embed it in entity
// structs; the zero value means "not yet persisted".
type Key struct {
	id int64
}

// ID returns the primary key, or zero when the instance has not been saved
func (k *Key) ID() int64 {
	return k.id
}

// IsPersisted reports whether the instance has been assigned a primary key
func (k *Key) IsPersisted() bool {
	return k.id != 0
}

func (k *Key) recordKey() *Key {
	return k
}

// Entity is satisfied by any pointer to a struct embedding Key
type Entity interface {
	ID() int64
	recordKey() *Key
}

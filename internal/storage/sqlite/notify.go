package sqlite

// ChangeKind describes what happened to a record.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// Entity names the record type a change applies to.
type Entity string

const (
	EntityList    Entity = "list"
	EntityTask    Entity = "task"
	EntitySetting Entity = "setting"
)

// Change is delivered to subscribers after a write commits.
type Change struct {
	Kind    ChangeKind
	Entity  Entity
	ID      string
	Version uint64
}

// Version returns the number of writes committed since the store was opened.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Subscribe registers fn to be called after every committed write.
// Callbacks run synchronously on the writing goroutine. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(kind ChangeKind, entity Entity, id string) {
	c := Change{Kind: kind, Entity: entity, ID: id, Version: s.version.Add(1)}

	s.subMu.RLock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

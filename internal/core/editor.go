package core

import (
	"fmt"
	"strings"
	"time"
)

// EditSession is a transient deep copy of the schema that absorbs edits until
// they are committed wholesale or discarded. The live schema is never touched
// through a session; committing is the caller's job (take Categories and swap
// it in).
type EditSession struct {
	cats Schema

	// usedKeys tracks every item key seen during the session's lifetime,
	// including deleted ones, so generated keys are never reused.
	usedKeys map[string]struct{}

	nowMillis func() int64
}

// BeginEdit starts an edit session over a deep copy of the live schema.
func BeginEdit(live Schema) *EditSession {
	e := &EditSession{
		cats:      live.Clone(),
		usedKeys:  make(map[string]struct{}),
		nowMillis: func() int64 { return time.Now().UnixMilli() },
	}
	for _, def := range e.cats {
		for k := range def.Items {
			e.usedKeys[k] = struct{}{}
		}
	}
	return e
}

// RenameItem changes an item's display label only.
func (e *EditSession) RenameItem(category CategoryKey, itemKey, newLabel string) error {
	def, ok := e.cats[category]
	if !ok {
		return ErrUnknownCategory
	}
	item, ok := def.Items[itemKey]
	if !ok {
		return ErrUnknownItem
	}
	item.Label = strings.TrimSpace(newLabel)
	def.Items[itemKey] = item
	return nil
}

// DeleteItem removes an item from the session. Deleting the last remaining
// item of a category is rejected and leaves the session unchanged.
func (e *EditSession) DeleteItem(category CategoryKey, itemKey string) error {
	def, ok := e.cats[category]
	if !ok {
		return ErrUnknownCategory
	}
	if _, ok := def.Items[itemKey]; !ok {
		return ErrUnknownItem
	}
	if len(def.Items) <= 1 {
		return ErrLastItem
	}
	delete(def.Items, itemKey)
	return nil
}

// AddItem inserts a placeholder item with a generated time-based key and
// returns the key. Keys are unique for the lifetime of the session even
// across deletions.
func (e *EditSession) AddItem(category CategoryKey) (string, error) {
	def, ok := e.cats[category]
	if !ok {
		return "", ErrUnknownCategory
	}
	ms := e.nowMillis()
	key := fmt.Sprintf("custom_%d", ms)
	for {
		if _, taken := e.usedKeys[key]; !taken {
			break
		}
		ms++
		key = fmt.Sprintf("custom_%d", ms)
	}
	e.usedKeys[key] = struct{}{}
	def.Items[key] = ItemDef{Label: "New Item"}
	return key, nil
}

// Categories returns a deep copy of the session's current state, suitable
// for committing as the new live schema.
func (e *EditSession) Categories() Schema {
	return e.cats.Clone()
}

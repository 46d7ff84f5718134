package migration

import (
	"sort"
	"sync"
)

// UserMap resolves source usernames to destination usernames. Resolution never
// fails: anything absent from the table maps to the configured fallback
// identity, and the miss is remembered for the final report.
type UserMap struct {
	mu            sync.Mutex
	table         map[string]string
	defaultAuthor string
	fallbacks     map[string]struct{}
}

func NewUserMap(table map[string]string, defaultAuthor string) *UserMap {
	return &UserMap{
		table:         table,
		defaultAuthor: defaultAuthor,
		fallbacks:     make(map[string]struct{}),
	}
}

// Resolve returns the destination username for a source username. An unmapped
// or empty username (e.g. a deleted source account) resolves to the fallback
// identity.
func (u *UserMap) Resolve(sourceUsername string) string {
	if dest, ok := u.table[sourceUsername]; ok {
		return dest
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if sourceUsername != "" {
		u.fallbacks[sourceUsername] = struct{}{}
	}
	return u.defaultAuthor
}

// Fallbacks returns the sorted set of source usernames that resolved to the
// fallback identity during the run.
func (u *UserMap) Fallbacks() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	ret := make([]string, 0, len(u.fallbacks))
	for username := range u.fallbacks {
		ret = append(ret, username)
	}
	sort.Strings(ret)
	return ret
}

package user

// User is a stored user record.
//
// Name and Email are opaque to the store: neither is validated and no
// uniqueness is enforced.
type User struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// Manager is an in-memory user store.
type Manager struct {
	users []User
	ids   *Sequence
}

// NewManager creates an empty manager. The first user added gets id 1.
func NewManager() *Manager {
	return &Manager{
		users: []User{},
		ids:   NewSequence(),
	}
}

// Add creates a user with the next id and appends it to the store.
func (m *Manager) Add(name, email string) User {
	u := User{
		ID:    m.ids.Next(),
		Name:  name,
		Email: email,
	}
	m.users = append(m.users, u)
	return u
}

// FindByID returns the user with the given id.
// The second result is false if no such user exists.
func (m *Manager) FindByID(id int64) (User, bool) {
	if i := m.indexOf(id); i >= 0 {
		return m.users[i], true
	}
	return User{}, false
}

// Delete removes the user with the given id and reports whether it existed.
// The order of the remaining users is preserved.
func (m *Manager) Delete(id int64) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.users = append(m.users[:i], m.users[i+1:]...)
	return true
}

// All returns a copy of the stored users in insertion order.
// Modifying the returned slice does not affect the manager.
func (m *Manager) All() []User {
	out := make([]User, len(m.users))
	copy(out, m.users)
	return out
}

// Len returns the number of stored users.
func (m *Manager) Len() int {
	return len(m.users)
}

// NextID returns the id the next call to Add will assign.
func (m *Manager) NextID() int64 {
	return m.ids.Peek()
}

// indexOf scans for id. Ids are unique, so the first match is the only one.
func (m *Manager) indexOf(id int64) int {
	for i := range m.users {
		if m.users[i].ID == id {
			return i
		}
	}
	return -1
}

package peer

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Credentials stores bcrypt hashes of user passwords.
type Credentials struct {
	mu     sync.RWMutex
	cost   int
	hashes map[string][]byte
}

// NewCredentials returns an empty store. Zero cost stands for bcrypt.DefaultCost.
func NewCredentials(cost int) *Credentials {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Credentials{
		cost:   cost,
		hashes: make(map[string][]byte),
	}
}

// Add sets the user's password, replacing the old one if any.
func (c *Credentials) Add(user, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.hashes[user] = hash
	c.mu.Unlock()

	return nil
}

func (c *Credentials) Verify(user, password string) bool {
	c.mu.RLock()
	hash, found := c.hashes[user]
	c.mu.RUnlock()

	return found && bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

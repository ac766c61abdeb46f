package student

import (
	"bytes"

	"golang.org/x/crypto/bcrypt"
)

// HashProvider hashes and verifies passwords.
type HashProvider interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) bool
}

type bcryptHasher struct {
	cost int
}

var _ HashProvider = (*bcryptHasher)(nil) // interface compliance check

func NewBcryptHasher() *bcryptHasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

func (h bcryptHasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), h.cost)
}

func (h bcryptHasher) Compare(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// FakeHasher is a fast reversible "hash" for tests.
type FakeHasher struct{}

var fakePrefix = []byte("fake$")

func (FakeHasher) Hash(password string) ([]byte, error) {
	return append(append([]byte{}, fakePrefix...), password...), nil
}

func (FakeHasher) Compare(hash []byte, password string) bool {
	return bytes.Equal(hash, append(append([]byte{}, fakePrefix...), password...))
}

package service

import (
	"golang.org/x/crypto/bcrypt"
)

// AccessService hashes and verifies gallery passwords with bcrypt.
type AccessService struct {
	cost int
}

func NewAccessService() *AccessService {
	return &AccessService{cost: bcrypt.DefaultCost}
}

func (s *AccessService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AccessService) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

package testutil

import (
	"time"

	"reuse-gateway/internal/auth/domain/model"

	"golang.org/x/crypto/bcrypt"
)

// UserFixture provides test data for the User model
type UserFixture struct{}

// NewUserFixture creates a new UserFixture instance
func NewUserFixture() *UserFixture {
	return &UserFixture{}
}

// ValidUser returns a valid user for testing (password "senha123")
func (f *UserFixture) ValidUser() *model.User {
	return f.UserWithPassword("teste@email.com", "senha123")
}

// UserWithEmail returns a user with a specific email
func (f *UserFixture) UserWithEmail(email string) *model.User {
	return f.UserWithPassword(email, "senha123")
}

// UserWithPassword returns a user with a specific email and password
func (f *UserFixture) UserWithPassword(email, password string) *model.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &model.User{
		ID:           "user-" + email,
		Email:        email,
		Name:         "Usuário Teste",
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

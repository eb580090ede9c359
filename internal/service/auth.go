package service

import (
	"net/http"
	"strings"

	"github.com/hardiksingla/insightboard/internal/domain"
	"github.com/hardiksingla/insightboard/internal/errors"
	"github.com/hardiksingla/insightboard/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// to mock service in tests
type AuthService interface {
	Signup(email domain.Email, name, password string) (domain.UserId, error)
	Login(email domain.Email, password string) (string, error)
	Federated(profile domain.FederatedProfile) (string, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(email domain.Email) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) AuthService {
	return &Auth{storage, jwt}
}

// Signup creates a credential account. Passwords are bcrypt-hashed before
// they touch storage.
func (a *Auth) Signup(email domain.Email, name, password string) (domain.UserId, error) {
	email = strings.ToLower(email)

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return -1, err
	}

	return a.storage.SaveUser(domain.User{Email: email, Name: name, PassHash: string(passHash)})
}

// Login verifies credentials and returns an access token. A federated-only
// account (no stored hash) cannot log in with a password.
func (a *Auth) Login(email domain.Email, password string) (string, error) {
	email = strings.ToLower(email)

	user, err := a.storage.User(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", invalidCredentials()
		}
		return "", err
	}
	if user.PassHash == "" {
		return "", invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return "", invalidCredentials()
	}

	return a.jwt.NewToken(user)
}

// Federated resolves a third-party identity to a local account, creating the
// account on first sign-in, and returns an access token.
func (a *Auth) Federated(profile domain.FederatedProfile) (string, error) {
	email := strings.ToLower(profile.Email)

	user, err := a.storage.User(email)
	if err != nil {
		if !errors.IsNotFound(err) {
			return "", err
		}
		id, err := a.storage.SaveUser(domain.User{Email: email, Name: profile.Name, Image: profile.Image})
		if err != nil {
			return "", err
		}
		logger.Log.Info("provisioned user from federated sign-in", "email", email)
		user = domain.User{Id: id, Email: email, Name: profile.Name, Image: profile.Image}
	}

	return a.jwt.NewToken(user)
}

func invalidCredentials() error {
	return &errors.ErrorWithStatusCode{Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
}

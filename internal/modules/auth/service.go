package auth

import (
	"strconv"
	"strings"

	jwtsvc "evcharge/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type tokenIssuer interface {
	GenerateToken(email, role string) (string, error)
}

// Service issues tokens for the two principals this system knows: charging
// users (any non-empty credentials, demo semantics kept from the original
// deployment) and the single env-configured admin.
type Service struct {
	jwt               tokenIssuer
	adminEmail        string
	adminPasswordHash []byte
}

func NewService(jwt *jwtsvc.Service, adminEmail string, adminPasswordHash []byte) *Service {
	return &Service{
		jwt:               jwt,
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
	}
}

func (s *Service) LoginUser(email, password string) (string, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", "", ErrValidation
	}

	token, err := s.jwt.GenerateToken(email, RoleUser)
	if err != nil {
		return "", "", err
	}
	return token, email, nil
}

func (s *Service) LoginAdmin(email, password string) (string, error) {
	if email != s.adminEmail {
		return "", ErrCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.adminPasswordHash, []byte(password)); err != nil {
		return "", ErrCredentials
	}

	return s.jwt.GenerateToken(email, RoleAdmin)
}

// VerifyPlate applies the registration heuristic: strip everything but
// digits, registered iff the last digit is even.
func (s *Service) VerifyPlate(plate string) bool {
	var digits strings.Builder
	for _, ch := range plate {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	cleaned := digits.String()
	if cleaned == "" {
		return false
	}

	last, err := strconv.Atoi(cleaned[len(cleaned)-1:])
	if err != nil {
		return false
	}
	return last%2 == 0
}

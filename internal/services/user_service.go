package services

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pennybook/backend/internal/apperrors"
	"github.com/pennybook/backend/internal/models"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/argon2"
)

// UserStore is the persistence surface the service needs.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// SignInResult carries the authenticated user and their freshly issued token.
type SignInResult struct {
	User  models.UserRecord `json:"user"`
	Token string            `json:"token"`
}

// UserService implements registration, sign-in and lookup.
type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// Create registers a new user. The email is pre-checked for duplicates
// before insert; the store's unique index closes the remaining race window.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.UserRecord, error) {
	email := strings.ToLower(input.Email)

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Printf("[AUTH] Registration rejected, email already registered: %s", email)
		return nil, apperrors.Duplicate("User with this email already exists")
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user, err := s.store.Insert(ctx, &models.User{
		Name:     input.Name,
		Email:    email,
		Password: hashed,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[AUTH] User created - ID: %s, Email: %s", user.ID.Hex(), user.Email)

	record := user.Record()
	return &record, nil
}

// SignIn verifies credentials and issues a token. An unknown email fails
// with a not-found signal, a wrong password with an invalid-credentials
// signal; the two are deliberately distinct.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := s.store.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User with this email does not exist")
	}

	if !verifyPassword(password, user.Password) {
		log.Printf("[AUTH] Invalid password for user: %s", user.Email)
		return nil, apperrors.Auth("Invalid credentials")
	}

	token, err := generateToken(user.ID.Hex())
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}

	log.Printf("[AUTH] Sign-in successful for user %s", user.ID.Hex())
	return &SignInResult{User: user.Record(), Token: token}, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.UserRecord, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	user, err := s.store.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	record := user.Record()
	return &record, nil
}

// generateToken signs an HS256 token carrying the user's identity. Tokens
// are not time-bounded; revocation is out of scope.
func generateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
	})

	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, viper.GetInt("argon2.salt_length"))
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

func verifyPassword(password, hashedPassword string) bool {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return subtle.ConstantTimeCompare(hash, computedHash) == 1
}

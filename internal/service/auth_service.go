package service

import (
	"context"
	"errors"
	"time"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrStaffAlreadyExists   = errors.New("staff user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// AuthService handles staff registration and login. Gym clients are
// records, not accounts; only staff authenticate.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.StaffRole) (*domain.StaffUser, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.StaffUser, err error)
	GetJWTSecret() string
}

type authService struct {
	staff         repository.StaffRepository
	jwtSecret     string
	jwtExpiration time.Duration
	log           *logger.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(staff repository.StaffRepository, jwtSecret string, jwtExpiration time.Duration, log *logger.Logger) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		staff:         staff,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		log:           log,
	}
}

// Register handles new staff account registration.
func (s *authService) Register(ctx context.Context, name, email, password string, role domain.StaffRole) (*domain.StaffUser, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email and password cannot be empty")
	}
	if role != domain.RoleAdmin && role != domain.RoleCoach {
		return nil, errors.New("role must be admin or coach")
	}

	_, err := s.staff.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrStaffAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.StaffUser{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	userID, err := s.staff.Create(ctx, user)
	if err != nil {
		// The unique index wins any race the GetByEmail check lost.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrStaffAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	s.log.Info("staff user registered", "userId", userID.Hex(), "role", role)

	// The repository holds the original, so scrub a copy for the caller.
	created := *user
	created.PasswordHash = ""
	return &created, nil
}

// Login handles staff authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.StaffUser, err error) {
	if email == "" || password == "" {
		err = errors.New("email and password cannot be empty")
		return
	}

	user, err = s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
			return
		}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		user = nil
		return
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string           `json:"uid"`
	Role   domain.StaffRole `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given staff user.
func (s *authService) generateJWT(user *domain.StaffUser) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gym-studio",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}

package user

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/inkpress/domain"
)

type Service struct {
	userRepo  domain.UserRepository
	jwtSecret []byte
	jwtTTL    time.Duration
}

var _ domain.UserUsecase = (*Service)(nil)

// NewService will create a new user service object
func NewService(u domain.UserRepository, jwtSecret []byte, jwtTTL time.Duration) *Service {
	return &Service{
		userRepo:  u,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

func (s *Service) Register(ctx context.Context, email, username, password string) (domain.User, error) {
	taken, err := s.userRepo.ExistsByEmailOrUsername(ctx, email, username, 0)
	if err != nil {
		return domain.User{}, err
	}
	if taken {
		return domain.User{}, domain.ErrConflict
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		Name:     username,
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Insert(ctx, &u); err != nil {
		return domain.User{}, err
	}
	u.Password = ""
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrBadParamInput
	}

	token, err := s.signToken(u)
	if err != nil {
		return "", domain.User{}, err
	}

	u.Password = ""
	return token, u, nil
}

func (s *Service) GetProfile(ctx context.Context, username string) (domain.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	u.Password = ""
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, name, email, bio string) (domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if email != u.Email {
		taken, err := s.userRepo.ExistsByEmailOrUsername(ctx, email, u.Username, userID)
		if err != nil {
			return domain.User{}, err
		}
		if taken {
			return domain.User{}, domain.ErrConflict
		}
	}

	u.Name = name
	u.Email = email
	u.Bio = bio
	u.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, &u); err != nil {
		return domain.User{}, err
	}
	u.Password = ""
	return u, nil
}

func (s *Service) signToken(u domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"exp":      time.Now().Add(s.jwtTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Join(domain.ErrInternalServerError, err)
	}
	return signed, nil
}

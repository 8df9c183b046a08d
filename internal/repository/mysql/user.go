package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkpress/inkpress/domain"
	"github.com/inkpress/inkpress/internal/repository/mysql/model"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserRepository
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return user.ToDomain(), nil
}

func (m *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return user.ToDomain(), nil
}

func (m *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return user.ToDomain(), nil
}

func (m *userRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string, excludeID int64) (bool, error) {
	var count int64
	q := m.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ? OR username = ?", email, username)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (m *userRepository) Insert(ctx context.Context, u *domain.User) error {
	userModel := model.NewUserFromDomain(u)

	result := m.DB.WithContext(ctx).Create(userModel)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domain.ErrConflict
		}
		return result.Error
	}

	u.ID = userModel.ID
	u.CreatedAt = userModel.CreatedAt
	return nil
}

func (m *userRepository) Update(ctx context.Context, u *domain.User) error {
	userModel := model.NewUserFromDomain(u)

	err := m.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userModel.ID).
		Select("name", "email", "bio", "avatar_image", "updated_at").
		Updates(userModel).Error
	if err != nil && isDuplicateKey(err) {
		return domain.ErrConflict
	}
	return err
}

package domain

import (
	"context"
	"time"
)

// User represents a user entity in the system.
// A user can register, login, write articles and maintain a profile.
type User struct {
	ID          int64     // Unique identifier
	Name        string    // Display name
	Username    string    // Login username (unique)
	Email       string    // Contact email (unique)
	Password    string    // Bcrypt hashed password
	Bio         string    // Short profile text
	AvatarImage string    // Avatar URL, empty when unset
	CreatedAt   time.Time // Account creation timestamp
	UpdatedAt   time.Time // Last profile update timestamp
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (User, error)

	// GetByEmail retrieves a user by their email.
	// Used during login to verify credentials.
	GetByEmail(ctx context.Context, email string) (User, error)

	// ExistsByEmailOrUsername reports whether another account already owns
	// the email or username. excludeID skips the given account (0 = none).
	ExistsByEmailOrUsername(ctx context.Context, email, username string, excludeID int64) (bool, error)

	// Insert creates a new user account.
	// Backfills the ID in the provided User object upon success.
	Insert(ctx context.Context, u *User) error

	// Update modifies an existing user's information.
	Update(ctx context.Context, u *User) error
}

// UserUsecase defines the business logic contract for user operations.
// Handles authentication, registration, and profile management.
type UserUsecase interface {
	// Register creates a new user account.
	// Returns ErrConflict if the email or username already exists.
	Register(ctx context.Context, email, username, password string) (User, error)

	// Login verifies user credentials and returns a signed session token.
	// Returns ErrNotFound if the user doesn't exist.
	// Returns ErrBadParamInput if the password is incorrect.
	Login(ctx context.Context, email, password string) (string, User, error)

	// GetProfile returns the public profile for username.
	GetProfile(ctx context.Context, username string) (User, error)

	// UpdateProfile changes name, email and bio of the calling user.
	// Returns ErrConflict when the email is taken by another account.
	UpdateProfile(ctx context.Context, userID int64, name, email, bio string) (User, error)
}

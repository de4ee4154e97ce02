// users.go - Registration, credentials and token-based identity

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"hotel-bookings-backend/auth"
	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/models"
	"hotel-bookings-backend/repository"

	"gorm.io/gorm"
)

type UsersService struct {
	users    *repository.Repository[models.User]
	cache    cache.Store   // Nil disables invalidation
	secret   string        // JWT signing key
	tokenTTL time.Duration // Lifetime of issued tokens
}

func NewUsersService(db *gorm.DB, store cache.Store, secret string, tokenTTL time.Duration) *UsersService {
	return &UsersService{
		users:    repository.New[models.User](db),
		cache:    store,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// UserUpdate carries the optional fields of a partial user update.
type UserUpdate struct {
	Email    *string // Nil keeps the current email
	Password *string // Nil keeps the current password
}

// normalizeEmail trims and lowercases so lookups ignore case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a hashed password. The email must not be taken.
func (s *UsersService) Register(ctx context.Context, email, password string) (*models.User, error) {
	// STEP 1: Refuse a taken email
	email = normalizeEmail(email)
	existing, err := s.users.FindOneOrNone(ctx, repository.Filters{"email": email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	// STEP 2: Hash and store
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, HashedPassword: hash}
	if err := s.users.AddOne(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user owning email if password matches.
func (s *UsersService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindOneOrNone(ctx, repository.Filters{"email": normalizeEmail(email)})
	if err != nil {
		return nil, err
	}
	// Unknown email and wrong password look the same to the caller
	if user == nil || !auth.VerifyPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues an access token.
func (s *UsersService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := auth.IssueToken(s.secret, user.ID, user.Email, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// CurrentUser resolves the user an access token was issued to.
func (s *UsersService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := auth.ParseToken(s.secret, token)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// List returns every user ordered by id.
func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx, nil)
}

func (s *UsersService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update changes the email and/or password of a user. Omitted fields stay as they are.
func (s *UsersService) Update(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email { // Keeping the same email is not a conflict
			taken, err := s.users.FindOneOrNone(ctx, repository.Filters{"email": email})
			if err != nil {
				return nil, err
			}
			if taken != nil {
				return nil, ErrUserAlreadyExists
			}
		}
		fields["email"] = email
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["hashed_password"] = hash
	}

	if err := s.users.UpdateOne(ctx, user, fields); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user and, through the foreign key, their bookings. The rooms
// those bookings held become free, so the hotels' availability is invalidated too.
func (s *UsersService) Delete(ctx context.Context, id uint) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// STEP 1: Find the hotels whose rooms this user held
	tags, err := bookedHotelTags(ctx, s.users.DB(ctx), user.ID)
	if err != nil {
		return err
	}
	// STEP 2: Delete and invalidate
	if err := s.users.DeleteOne(ctx, user); err != nil {
		return err
	}
	cache.Invalidate(ctx, s.cache, append(tags, cache.UserBookingsTag(user.ID))...)
	return nil
}

// Exists is used by the admin session check on every admin request.
func (s *UsersService) Exists(ctx context.Context, id uint) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

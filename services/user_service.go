package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

const userColumns = `
	id, clerk_id, email, name, role, birth_date, age, gender, zodiac_sign,
	profile_photo_url, bio, interests, hair_color, eye_color, height, weight,
	origin, body_type, has_children, wants_children, looking_for,
	coins, level, xp, streak_count, last_claim_date,
	is_premium, premium_expires_at, is_vip, is_active, last_seen,
	created_at, updated_at`

func scanUser(row pgx.Row) (*profile.User, error) {
	u := &profile.User{}
	err := row.Scan(
		&u.ID, &u.ClerkID, &u.Email, &u.Name, &u.Role, &u.BirthDate, &u.Age,
		&u.Gender, &u.ZodiacSign, &u.ProfilePhotoURL, &u.Bio, &u.Interests,
		&u.HairColor, &u.EyeColor, &u.Height, &u.Weight, &u.Origin, &u.BodyType,
		&u.HasChildren, &u.WantsChildren, &u.LookingFor,
		&u.Coins, &u.Level, &u.XP, &u.StreakCount, &u.LastClaimDate,
		&u.IsPremium, &u.PremiumExpiresAt, &u.IsVip, &u.IsActive, &u.LastSeen,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.Interests == nil {
		u.Interests = []string{}
	}
	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, req *profile.CreateUserRequest) (*profile.User, error) {
	query := `
	INSERT INTO users (id, clerk_id, email, name, created_at, updated_at)
	VALUES ($1, $2, $3, $4, NOW(), NOW())
	RETURNING ` + userColumns

	id := uuid.New().String()
	user, err := scanUser(s.db.QueryRow(ctx, query, id, req.ClerkID, req.Email, req.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*profile.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE clerk_id = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, clerkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *profile.UpdateProfileRequest) (*profile.User, error) {
	query := `
	UPDATE users
	SET
		name = COALESCE(NULLIF($2, ''), name),
		birth_date = COALESCE($3, birth_date),
		age = CASE WHEN $3::timestamptz IS NOT NULL
			THEN DATE_PART('year', AGE($3::timestamptz))::int ELSE age END,
		bio = COALESCE($4, bio),
		interests = COALESCE($5, interests),
		profile_photo_url = COALESCE($6, profile_photo_url),
		gender = COALESCE($7, gender),
		zodiac_sign = COALESCE($8, zodiac_sign),
		hair_color = COALESCE($9, hair_color),
		eye_color = COALESCE($10, eye_color),
		height = COALESCE($11, height),
		weight = COALESCE($12, weight),
		origin = COALESCE($13, origin),
		body_type = COALESCE($14, body_type),
		has_children = COALESCE($15, has_children),
		wants_children = COALESCE($16, wants_children),
		looking_for = COALESCE($17, looking_for),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRow(
		ctx, query, clerkID,
		req.Name, req.BirthDate, req.Bio, req.Interests, req.ProfilePhotoURL,
		req.Gender, req.ZodiacSign, req.HairColor, req.EyeColor,
		req.Height, req.Weight, req.Origin, req.BodyType,
		req.HasChildren, req.WantsChildren, req.LookingFor,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfilePhoto(ctx context.Context, clerkID string, photoURL string) (*profile.User, error) {
	query := `
	UPDATE users
	SET profile_photo_url = $2, updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRow(ctx, query, clerkID, photoURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return user, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) GetCoinBalance(ctx context.Context, clerkID string) (int, error) {
	var coins int
	err := s.db.QueryRow(ctx, `SELECT coins FROM users WHERE clerk_id = $1`, clerkID).Scan(&coins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get coin balance: %w", err)
	}
	return coins, nil
}

// TouchLastSeen records activity; failures are not fatal for the request.
func (s *UserService) TouchLastSeen(ctx context.Context, clerkID string) {
	_, _ = s.db.Exec(ctx, `UPDATE users SET last_seen = NOW() WHERE clerk_id = $1`, clerkID)
}

func (s *UserService) UpdateEmail(ctx context.Context, clerkID string, email string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET email = $2, updated_at = NOW() WHERE clerk_id = $1`,
		clerkID, email)
	return err
}

// SyncFromClerk upserts the profile row from a Clerk webhook payload.
func (s *UserService) SyncFromClerk(ctx context.Context, data *profile.ClerkUserData) error {
	email := ""
	if len(data.EmailAddresses) > 0 {
		email = data.EmailAddresses[0].EmailAddress
	}

	name := data.Username
	if name == "" {
		name = data.FirstName + " " + data.LastName
	}

	query := `
	INSERT INTO users (id, clerk_id, email, name, profile_photo_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW(), NOW())
	ON CONFLICT (clerk_id)
	DO UPDATE SET
		email = EXCLUDED.email,
		name = EXCLUDED.name,
		profile_photo_url = COALESCE(EXCLUDED.profile_photo_url, users.profile_photo_url),
		updated_at = NOW()
	`

	_, err := s.db.Exec(ctx, query, uuid.New().String(), data.ID, email, name, data.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to sync user from clerk: %w", err)
	}
	return nil
}

// SetPremium flips the premium flags after a successful subscription event.
func (s *UserService) SetPremium(ctx context.Context, clerkID string, validUntil time.Time) error {
	result, err := s.db.Exec(ctx, `
		UPDATE users
		SET is_premium = true, premium_expires_at = $2, updated_at = NOW()
		WHERE clerk_id = $1`, clerkID, validUntil)
	if err != nil {
		return fmt.Errorf("failed to set premium: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) userIDByClerkID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

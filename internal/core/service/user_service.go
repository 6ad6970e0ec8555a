package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dailypage/journal-api/internal/api/metrics"
	"github.com/dailypage/journal-api/internal/core/domain"
	"github.com/dailypage/journal-api/internal/core/ports"
)

// UserService implements registration, login, lookups and the daily streak
// update. The entry repository is only consulted for the totals in Stats.
type UserService struct {
	repo       ports.UserRepository
	entries    ports.EntryRepository
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time // overridable in tests
}

func NewUserService(repo ports.UserRepository, entries ports.EntryRepository, jwtSecret string, tokenTTL time.Duration, bcryptCost int, log zerolog.Logger) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		repo:       repo,
		entries:    entries,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		log:        log,
		now:        time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
		Streak:       0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateStreak applies the calendar-day streak rules:
//
//   - no previous entry: streak becomes 1
//   - same day as the last entry: streak unchanged
//   - exactly one day later: streak + 1
//   - a gap of more than one day: streak resets to 1
//   - last entry dated in the future (clock skew): streak unchanged
//
// The last-entry day is advanced to today in every case. The write is
// conditional on the streak value read here, so two concurrent entry
// creations for the same user cannot silently lose an increment.
func (s *UserService) UpdateStreak(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := startOfDay(s.now())
	streak := user.Streak
	outcome := "unchanged"

	if user.LastEntryDate == nil {
		streak = 1
		outcome = "started"
	} else {
		gapDays := int(today.Sub(startOfDay(*user.LastEntryDate)).Hours() / 24)
		switch {
		case gapDays == 1:
			streak++
			outcome = "extended"
		case gapDays > 1:
			streak = 1
			outcome = "reset"
		}
		// gapDays == 0 is a same-day repeat; negative gaps come from clock
		// skew or imported data. Both leave the streak as it is.
	}

	updated, err := s.repo.UpdateStreak(ctx, userID, user.Streak, streak, today)
	if err != nil {
		return nil, err
	}

	metrics.StreakUpdatesTotal.WithLabelValues(outcome).Inc()
	s.log.Info().
		Str("user_id", userID).
		Int("streak", updated.Streak).
		Str("outcome", outcome).
		Msg("streak updated")

	return updated, nil
}

func (s *UserService) Stats(ctx context.Context, userID string) (*ports.UserStats, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, words, err := s.entries.Totals(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ports.UserStats{
		Streak:       user.Streak,
		TotalEntries: entries,
		TotalWords:   words,
	}, nil
}

func (s *UserService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dailypage/journal-api/internal/core/domain"
	"github.com/dailypage/journal-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// fixedNow is the reference "wall clock" for streak tests: an afternoon
// instant whose calendar day is 2026-03-10 UTC.
var fixedNow = time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID        map[string]*domain.User
	seq         int
	streakCalls int
	conflict    bool // force a lost optimistic write
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.seq++
	clone := *u
	if clone.ID == "" {
		clone.ID = "user-" + strconv.Itoa(r.seq)
	}
	r.byID[clone.ID] = &clone
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	created := r.add(user)
	clone := *created
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) UpdateStreak(_ context.Context, id string, fromStreak, toStreak int, lastEntryDate time.Time) (*domain.User, error) {
	r.streakCalls++
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.conflict || u.Streak != fromStreak {
		return nil, domain.ErrStreakConflict
	}
	u.Streak = toStreak
	d := lastEntryDate
	u.LastEntryDate = &d
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

// stubEntryRepo satisfies ports.EntryRepository; only Totals matters for the
// user service, the rest is exercised by the entry service tests.
type stubEntryRepo struct {
	byID      map[string]*domain.Entry
	seq       int
	createErr error
	deleteErr error
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{byID: make(map[string]*domain.Entry)}
}

func (r *stubEntryRepo) Create(_ context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *entry
	clone.ID = "entry-" + strconv.Itoa(r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubEntryRepo) FindByID(_ context.Context, id string) (*domain.Entry, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubEntryRepo) FindByUser(_ context.Context, userID string, dayFilter *time.Time) ([]*domain.Entry, error) {
	var out []*domain.Entry
	for _, e := range r.byID {
		if e.UserID != userID {
			continue
		}
		if dayFilter != nil && !e.Date.Equal(*dayFilter) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubEntryRepo) Update(_ context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if _, ok := r.byID[entry.ID]; !ok {
		return nil, domain.ErrEntryNotFound
	}
	clone := *entry
	r.byID[entry.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubEntryRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubEntryRepo) Totals(_ context.Context, userID string) (int64, int64, error) {
	var entries, words int64
	for _, e := range r.byID {
		if e.UserID == userID {
			entries++
			words += int64(e.WordCount)
		}
	}
	return entries, words, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestUserService(repo *stubUserRepo, entries *stubEntryRepo) *UserService {
	svc := NewUserService(repo, entries, "secret", time.Hour, bcrypt.MinCost, discardLogger)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seedUser(repo *stubUserRepo, streak int, lastEntryDate *time.Time) *domain.User {
	return repo.add(&domain.User{
		Email:         "ana@example.com",
		PasswordHash:  "x",
		Name:          "Ana",
		Role:          domain.RoleUser,
		Streak:        streak,
		LastEntryDate: lastEntryDate,
	})
}

// ---------------------------------------------------------------------------
// Register / Login
// ---------------------------------------------------------------------------

func TestUserService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubEntryRepo())

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "ana@example.com",
		Password: "s3cret99",
		Name:     "Ana",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "s3cret99" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret99")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.Streak != 0 {
		t.Fatalf("expected streak 0, got %d", user.Streak)
	}
	if user.LastEntryDate != nil {
		t.Fatalf("expected nil last entry date, got %v", user.LastEntryDate)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubEntryRepo())

	in := ports.RegisterInput{Email: "bob@example.com", Password: "passw0rd", Name: "Bob"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubEntryRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "", Password: "p", Name: "n"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "e@x.com", Password: "p", Name: "n", Role: "owner"}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubEntryRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "carol@example.com", Password: "s3cret99", Name: "Carol", Role: domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.Name != "Carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	// exp is derived from the fixed test clock, so skip time-based validation.
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithoutClaimsValidation()); err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != user.ID {
		t.Fatalf("expected sub %q, got %v", user.ID, claims["sub"])
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
}

func TestUserService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubEntryRepo())

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "d@example.com", Password: "goodpass", Name: "Dani"})
	if _, _, err := svc.Login(context.Background(), "d@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_Login_UserNotFound(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubEntryRepo())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// UpdateStreak
// ---------------------------------------------------------------------------

func TestUserService_UpdateStreak_FirstEntry(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubEntryRepo())
	u := seedUser(repo, 0, nil)

	updated, err := svc.UpdateStreak(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("UpdateStreak returned error: %v", err)
	}
	if updated.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", updated.Streak)
	}
	if updated.LastEntryDate == nil || !updated.LastEntryDate.Equal(day(fixedNow)) {
		t.Fatalf("expected last entry date %v, got %v", day(fixedNow), updated.LastEntryDate)
	}
}

func TestUserService_UpdateStreak_SameDayRepeat(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubEntryRepo())
	today := day(fixedNow)
	u := seedUser(repo, 3, &today)

	updated, err := svc.UpdateStreak(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("UpdateStreak returned error: %v", err)
	}
	if updated.Streak != 3 {
		t.Fatalf("expected streak unchanged at 3, got %d", updated.Streak)
	}
	if !updated.LastEntryDate.Equal(today) {
		t.Fatalf("expected last entry date refreshed to %v, got %v", today, updated.LastEntryDate)
	}
}

func TestUserService_UpdateStreak_ConsecutiveDay(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubEntryRepo())
	yesterday := day(fixedNow).AddDate(0, 0, -1)
	u := seedUser(repo, 5, &yesterday)

	updated, err := svc.UpdateStreak(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("UpdateStreak returned error: %v", err)
	}
	if updated.Streak != 6 {
		t.Fatalf("expected streak 6, got %d", updated.Streak)
	}
	if !updated.LastEntryDate.Equal(day(fixedNow)) {
		t.Fatalf("expected last entry date %v, got %v", day(fixedNow), updated.LastEntryDate)
	}
}

func TestUserService_UpdateStreak_GapResets(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubEntryRepo())
	eightDaysAgo := day(fixedNow).AddDate(0, 0, -8)
	u := seedUser(repo, 5, &eightDaysAgo)

	updated, err := svc.UpdateStreak(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("UpdateStreak returned error: %v", err)
	}
	if updated.Streak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", updated.Streak)
	}
}

func TestUserService_UpdateStreak_FutureLastEntry(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo, newStubEntryRepo())
	tomorrow := day(fixedNow).AddDate(0, 0, 1)
	u := seedUser(repo, 4, &tomorrow)

	updated, err := svc.UpdateStreak(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("UpdateStreak returned error: %v", err)
	}
	// Clock skew: the streak is left alone but the day still advances.
	if updated.Streak != 4 {
		t.Fatalf("expected streak unchanged at 4, got %d", updated.Streak)
	}
	if !updated.LastEntryDate.Equal(day(fixedNow)) {
		t.Fatalf("expected last entry date %v, got %v", day(fixedNow), updated.LastEntryDate)
	}
}

func TestUserService_UpdateStreak_UnknownUser(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubEntryRepo())

	if _, err := svc.UpdateStreak(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateStreak_LostRace(t *testing.T) {
	repo := newStubUserRepo()
	repo.conflict = true
	svc := newTestUserService(repo, newStubEntryRepo())
	u := seedUser(repo, 2, nil)

	if _, err := svc.UpdateStreak(context.Background(), u.ID); err != domain.ErrStreakConflict {
		t.Fatalf("expected ErrStreakConflict, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

func TestUserService_Stats(t *testing.T) {
	repo := newStubUserRepo()
	entries := newStubEntryRepo()
	svc := newTestUserService(repo, entries)
	u := seedUser(repo, 7, nil)

	for _, words := range []int{100, 250} {
		if _, err := entries.Create(context.Background(), &domain.Entry{UserID: u.ID, WordCount: words}); err != nil {
			t.Fatalf("seed entry failed: %v", err)
		}
	}

	stats, err := svc.Stats(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Streak != 7 || stats.TotalEntries != 2 || stats.TotalWords != 350 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestUserService_Stats_UnknownUser(t *testing.T) {
	svc := newTestUserService(newStubUserRepo(), newStubEntryRepo())

	if _, err := svc.Stats(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

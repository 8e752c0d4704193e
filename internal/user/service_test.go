package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wiseeconomy/strabo/internal/logging"
)

func testUser(email string) User {
	return User{
		Name:             "Foobar",
		Email:            email,
		DateOfBirth:      time.Date(1990, time.January, 2, 0, 0, 0, 0, time.UTC),
		ResidenceCountry: "India",
		PhoneCountryCode: "+91",
		PhoneNumber:      "1234567890",
		PhotoURL:         "http://example.com/photo.png",
	}
}

func TestRegisterAndIsRegistered(t *testing.T) {
	svc := NewService(NewMemoryRepository(), logging.Discard())
	ctx := context.Background()

	registered, err := svc.IsRegistered(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("isRegistered: %v", err)
	}
	if registered {
		t.Fatal("expected a@x.com to be unregistered")
	}

	created, err := svc.Register(ctx, testUser("a@x.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !created {
		t.Fatal("expected first registration to create")
	}

	registered, err = svc.IsRegistered(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("isRegistered: %v", err)
	}
	if !registered {
		t.Fatal("expected a@x.com to be registered")
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, logging.Discard())
	ctx := context.Background()

	if _, err := svc.Register(ctx, testUser("a@x.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	firstID, err := repo.FindIDByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("find id: %v", err)
	}

	created, err := svc.Register(ctx, testUser("a@x.com"))
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if created {
		t.Fatal("expected second registration to be a no-op")
	}

	secondID, err := repo.FindIDByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("find id: %v", err)
	}
	if secondID != firstID {
		t.Fatalf("expected the original row to survive, id changed %s -> %s", firstID, secondID)
	}
}

func TestRegisterSwallowsDuplicateRace(t *testing.T) {
	// A repository that reports no registration up front but rejects the
	// insert, mimicking a concurrent registration winning in between.
	repo := &racingRepository{inner: NewMemoryRepository()}
	svc := NewService(repo, logging.Discard())

	created, err := svc.Register(context.Background(), testUser("a@x.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created {
		t.Fatal("expected the losing registration to report not-created")
	}
}

func TestEmailMatchIsCaseSensitive(t *testing.T) {
	svc := NewService(NewMemoryRepository(), logging.Discard())
	ctx := context.Background()

	if _, err := svc.Register(ctx, testUser("a@x.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	registered, err := svc.IsRegistered(ctx, "A@X.com")
	if err != nil {
		t.Fatalf("isRegistered: %v", err)
	}
	if registered {
		t.Fatal("expected exact-match lookup to miss on different casing")
	}
}

type racingRepository struct {
	inner Repository
}

func (r *racingRepository) Create(context.Context, User) error {
	return ErrDuplicateEmail
}

func (r *racingRepository) IsRegistered(ctx context.Context, email string) (bool, error) {
	return r.inner.IsRegistered(ctx, email)
}

func (r *racingRepository) FindIDByEmail(ctx context.Context, email string) (string, error) {
	return r.inner.FindIDByEmail(ctx, email)
}

func (r *racingRepository) FindByID(ctx context.Context, id string) (User, error) {
	return r.inner.FindByID(ctx, id)
}

func TestFindProfileUnknownID(t *testing.T) {
	svc := NewService(NewMemoryRepository(), logging.Discard())

	_, err := svc.Profile(context.Background(), "178e9955-32f0-47b8-8ad9-d630501d454b")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/targetcar/user-system/internal/core/domain"
	"github.com/targetcar/user-system/internal/core/ports"
)

// --- in-memory stubs ---

type stubUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.byEmail[created.Email] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	for email, existing := range r.byEmail {
		if existing.ID == user.ID {
			delete(r.byEmail, email)
			r.byEmail[user.Email] = cloneUser(user)
			return cloneUser(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) DeleteByEmail(_ context.Context, email string) error {
	delete(r.byEmail, email)
	return nil
}

type stubAddressRepo struct {
	byID   map[string]*domain.Address
	nextID int
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{byID: make(map[string]*domain.Address)}
}

func (r *stubAddressRepo) Create(_ context.Context, a *domain.Address) (*domain.Address, error) {
	r.nextID++
	created := *a
	created.ID = fmt.Sprintf("a%d", r.nextID)
	r.byID[created.ID] = &created
	out := created
	return &out, nil
}

func (r *stubAddressRepo) FindByID(_ context.Context, id string) (*domain.Address, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAddressNotFound
	}
	out := *a
	return &out, nil
}

func (r *stubAddressRepo) FindByUserID(_ context.Context, userID string) ([]domain.Address, error) {
	var out []domain.Address
	for _, a := range r.byID {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAddressRepo) Update(_ context.Context, a *domain.Address) (*domain.Address, error) {
	if _, ok := r.byID[a.ID]; !ok {
		return nil, domain.ErrAddressNotFound
	}
	stored := *a
	r.byID[a.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubAddressRepo) DeleteByUserID(_ context.Context, userID string) error {
	for id, a := range r.byID {
		if a.UserID == userID {
			delete(r.byID, id)
		}
	}
	return nil
}

type stubPhoneRepo struct {
	byID   map[string]*domain.Phone
	nextID int
}

func newStubPhoneRepo() *stubPhoneRepo {
	return &stubPhoneRepo{byID: make(map[string]*domain.Phone)}
}

func (r *stubPhoneRepo) Create(_ context.Context, p *domain.Phone) (*domain.Phone, error) {
	r.nextID++
	created := *p
	created.ID = fmt.Sprintf("p%d", r.nextID)
	r.byID[created.ID] = &created
	out := created
	return &out, nil
}

func (r *stubPhoneRepo) FindByID(_ context.Context, id string) (*domain.Phone, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPhoneNotFound
	}
	out := *p
	return &out, nil
}

func (r *stubPhoneRepo) FindByUserID(_ context.Context, userID string) ([]domain.Phone, error) {
	var out []domain.Phone
	for _, p := range r.byID {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPhoneRepo) Update(_ context.Context, p *domain.Phone) (*domain.Phone, error) {
	if _, ok := r.byID[p.ID]; !ok {
		return nil, domain.ErrPhoneNotFound
	}
	stored := *p
	r.byID[p.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubPhoneRepo) DeleteByUserID(_ context.Context, userID string) error {
	for id, p := range r.byID {
		if p.UserID == userID {
			delete(r.byID, id)
		}
	}
	return nil
}

type stubThrottle struct {
	limit    int
	failures map[string]int
	resets   int
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{limit: limit, failures: make(map[string]int)}
}

func (t *stubThrottle) TooManyAttempts(_ context.Context, email string) (bool, error) {
	return t.failures[email] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.resets++
	delete(t.failures, email)
	return nil
}

type testEnv struct {
	svc       *UserService
	users     *stubUserRepo
	addresses *stubAddressRepo
	phones    *stubPhoneRepo
	throttle  *stubThrottle
	tokens    *TokenManager
}

func newTestEnv() *testEnv {
	users := newStubUserRepo()
	addresses := newStubAddressRepo()
	phones := newStubPhoneRepo()
	throttle := newStubThrottle(3)
	tokens := NewTokenManager("secret", time.Hour)

	return &testEnv{
		svc:       NewUserService(users, addresses, phones, tokens, throttle, zerolog.Nop()),
		users:     users,
		addresses: addresses,
		phones:    phones,
		throttle:  throttle,
		tokens:    tokens,
	}
}

func registerDTO(name, email, password string) ports.UserDTO {
	return ports.UserDTO{Name: &name, Email: &email, Password: &password}
}

// --- tests ---

func TestUserService_Register_Success(t *testing.T) {
	env := newTestEnv()

	dto, err := env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if dto.Password != nil {
		t.Fatalf("response must not echo the password, got %q", *dto.Password)
	}

	stored := env.users.byEmail["ana@x.com"]
	if stored == nil {
		t.Fatalf("user not persisted")
	}
	if stored.PasswordHash == "pw1secret" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1secret")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	firstHash := env.users.byEmail["ana@x.com"].PasswordHash

	_, err := env.svc.Register(context.Background(), registerDTO("Impostora", "ana@x.com", "other-pass"))
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// The first registration must be untouched.
	stored := env.users.byEmail["ana@x.com"]
	if stored.Name != "Ana" || stored.PasswordHash != firstHash {
		t.Fatalf("first registration mutated: %+v", stored)
	}
}

func TestUserService_Authenticate_Success(t *testing.T) {
	env := newTestEnv()
	_, _ = env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))

	token, err := env.svc.Authenticate(context.Background(), ports.UserDTO{
		Email:    strPtr("ana@x.com"),
		Password: strPtr("pw1secret"),
	})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	sub, err := env.tokens.Subject(token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if sub != "ana@x.com" {
		t.Fatalf("token subject %q, want ana@x.com", sub)
	}
}

func TestUserService_Authenticate_UniformFailure(t *testing.T) {
	env := newTestEnv()
	_, _ = env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))

	// Wrong password and unknown email must be indistinguishable.
	_, wrongPass := env.svc.Authenticate(context.Background(), ports.UserDTO{
		Email:    strPtr("ana@x.com"),
		Password: strPtr("wrong"),
	})
	_, unknown := env.svc.Authenticate(context.Background(), ports.UserDTO{
		Email:    strPtr("ghost@x.com"),
		Password: strPtr("whatever"),
	})

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("failure shapes differ: %q vs %q", wrongPass, unknown)
	}
}

func TestUserService_Authenticate_ThrottledAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv()
	_, _ = env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))

	bad := ports.UserDTO{Email: strPtr("ana@x.com"), Password: strPtr("wrong")}
	for i := 0; i < 3; i++ {
		if _, err := env.svc.Authenticate(context.Background(), bad); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}

	_, err := env.svc.Authenticate(context.Background(), bad)
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestUserService_Authenticate_SuccessResetsThrottle(t *testing.T) {
	env := newTestEnv()
	_, _ = env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))

	_, _ = env.svc.Authenticate(context.Background(), ports.UserDTO{Email: strPtr("ana@x.com"), Password: strPtr("wrong")})
	if _, err := env.svc.Authenticate(context.Background(), ports.UserDTO{Email: strPtr("ana@x.com"), Password: strPtr("pw1secret")}); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if env.throttle.failures["ana@x.com"] != 0 {
		t.Fatalf("throttle not reset after success")
	}
}

func TestUserService_FindByEmail_IncludesSubResources(t *testing.T) {
	env := newTestEnv()
	created, _ := env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))

	_, _ = env.addresses.Create(context.Background(), &domain.Address{UserID: created.ID, Street: "Av. Paulista", PostalCode: "01310100"})
	_, _ = env.phones.Create(context.Background(), &domain.Phone{UserID: created.ID, Number: "999990000", DDD: "11"})

	dto, err := env.svc.FindByEmail(context.Background(), "ana@x.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(dto.Addresses) != 1 || len(dto.Phones) != 1 {
		t.Fatalf("expected 1 address and 1 phone, got %d/%d", len(dto.Addresses), len(dto.Phones))
	}
	if dto.Password != nil {
		t.Fatalf("password leaked in find response")
	}
}

func TestUserService_FindByEmail_NotFound(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.FindByEmail(context.Background(), "ghost@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_DeleteByEmail_Idempotent(t *testing.T) {
	env := newTestEnv()

	// Deleting an absent email is a success.
	if err := env.svc.DeleteByEmail(context.Background(), "ghost@x.com"); err != nil {
		t.Fatalf("delete of absent email must not fail: %v", err)
	}

	created, _ := env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))
	_, _ = env.addresses.Create(context.Background(), &domain.Address{UserID: created.ID, Street: "Av. Paulista"})
	_, _ = env.phones.Create(context.Background(), &domain.Phone{UserID: created.ID, Number: "999990000"})

	if err := env.svc.DeleteByEmail(context.Background(), "ana@x.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := env.svc.FindByEmail(context.Background(), "ana@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user still present after delete: %v", err)
	}
	if len(env.addresses.byID) != 0 || len(env.phones.byID) != 0 {
		t.Fatalf("owned records not removed: %d addresses, %d phones", len(env.addresses.byID), len(env.phones.byID))
	}
}

func TestUserService_UpdateProfile_MergesOnlyPresentFields(t *testing.T) {
	env := newTestEnv()
	_, _ = env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))
	oldHash := env.users.byEmail["ana@x.com"].PasswordHash

	token, _ := env.tokens.Generate("ana@x.com")
	dto, err := env.svc.UpdateProfile(context.Background(), "Bearer "+token, ports.UserDTO{
		Name: strPtr("Ana Clara"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if strVal(dto.Name) != "Ana Clara" {
		t.Fatalf("name not updated: %+v", dto)
	}

	stored := env.users.byEmail["ana@x.com"]
	if stored.Email != "ana@x.com" {
		t.Fatalf("absent email field clobbered: %s", stored.Email)
	}
	if stored.PasswordHash != oldHash {
		t.Fatalf("absent password rehashed")
	}
}

func TestUserService_UpdateProfile_PresentPasswordRehashes(t *testing.T) {
	env := newTestEnv()
	_, _ = env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))
	oldHash := env.users.byEmail["ana@x.com"].PasswordHash

	token, _ := env.tokens.Generate("ana@x.com")
	if _, err := env.svc.UpdateProfile(context.Background(), "Bearer "+token, ports.UserDTO{
		Password: strPtr("new-password"),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored := env.users.byEmail["ana@x.com"]
	if stored.PasswordHash == oldHash || stored.PasswordHash == "new-password" {
		t.Fatalf("password not rehashed: %q", stored.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")); err != nil {
		t.Fatalf("new hash does not verify: %v", err)
	}
}

func TestUserService_UpdateProfile_BadToken(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.UpdateProfile(context.Background(), "Bearer not-a-token", ports.UserDTO{}); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := env.svc.UpdateProfile(context.Background(), "garbage", ports.UserDTO{}); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing prefix, got %v", err)
	}
}

func TestUserService_UpdateProfile_SubjectGone(t *testing.T) {
	env := newTestEnv()

	token, _ := env.tokens.Generate("ghost@x.com")
	if _, err := env.svc.UpdateProfile(context.Background(), "Bearer "+token, ports.UserDTO{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_RegisterAddress_OwnerFromToken(t *testing.T) {
	env := newTestEnv()
	created, _ := env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))

	token, _ := env.tokens.Generate("ana@x.com")
	dto, err := env.svc.RegisterAddress(context.Background(), "Bearer "+token, ports.AddressDTO{
		ID:     "attacker-chosen", // must be ignored
		Street: strPtr("Av. Paulista"),
		City:   strPtr("São Paulo"),
	})
	if err != nil {
		t.Fatalf("register address: %v", err)
	}

	stored := env.addresses.byID[dto.ID]
	if stored == nil {
		t.Fatalf("address not persisted")
	}
	if stored.UserID != created.ID {
		t.Fatalf("owner id %q, want %q", stored.UserID, created.ID)
	}
}

func TestUserService_RegisterPhone_OwnerFromToken(t *testing.T) {
	env := newTestEnv()
	created, _ := env.svc.Register(context.Background(), registerDTO("Ana", "ana@x.com", "pw1secret"))

	token, _ := env.tokens.Generate("ana@x.com")
	dto, err := env.svc.RegisterPhone(context.Background(), "Bearer "+token, ports.PhoneDTO{
		Number: strPtr("999990000"),
		DDD:    strPtr("11"),
	})
	if err != nil {
		t.Fatalf("register phone: %v", err)
	}
	if env.phones.byID[dto.ID].UserID != created.ID {
		t.Fatalf("owner id not derived from token subject")
	}
}

func TestUserService_UpdateAddress_PartialMerge(t *testing.T) {
	env := newTestEnv()
	created, _ := env.addresses.Create(context.Background(), &domain.Address{
		UserID:     "u1",
		Street:     "Av. Paulista",
		City:       "São Paulo",
		State:      "SP",
		PostalCode: "01310100",
	})

	dto, err := env.svc.UpdateAddress(context.Background(), created.ID, ports.AddressDTO{
		City: strPtr("Campinas"),
	})
	if err != nil {
		t.Fatalf("update address: %v", err)
	}
	if strVal(dto.City) != "Campinas" || strVal(dto.Street) != "Av. Paulista" {
		t.Fatalf("merge wrong: %+v", dto)
	}

	stored := env.addresses.byID[created.ID]
	if stored.State != "SP" || stored.PostalCode != "01310100" {
		t.Fatalf("absent fields clobbered: %+v", stored)
	}
}

func TestUserService_UpdateAddress_NotFound(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.UpdateAddress(context.Background(), "missing", ports.AddressDTO{}); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestUserService_UpdatePhone_PartialMerge(t *testing.T) {
	env := newTestEnv()
	created, _ := env.phones.Create(context.Background(), &domain.Phone{UserID: "u1", Number: "999990000", DDD: "11"})

	dto, err := env.svc.UpdatePhone(context.Background(), created.ID, ports.PhoneDTO{
		Number: strPtr("888880000"),
	})
	if err != nil {
		t.Fatalf("update phone: %v", err)
	}
	if strVal(dto.Number) != "888880000" || strVal(dto.DDD) != "11" {
		t.Fatalf("merge wrong: %+v", dto)
	}
}

func TestUserService_UpdatePhone_NotFound(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.UpdatePhone(context.Background(), "missing", ports.PhoneDTO{}); !errors.Is(err, domain.ErrPhoneNotFound) {
		t.Fatalf("expected ErrPhoneNotFound, got %v", err)
	}
}

package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"snsfeed/cmd/security/password"
)

func testPasswords() password.Config {
	cfg := password.DefaultConfig()
	cfg.Cost = bcrypt.MinCost
	return cfg
}

func fakeRegistration(f *gofakeit.Faker) RegisterInput {
	return RegisterInput{
		LoginID:  f.Regex(`[a-z][a-z0-9]{5,10}`),
		Name:     f.Regex(`[A-Z][a-z]{3,10}`),
		Nickname: f.Regex(`[a-z]{4,12}`),
		Password: "pa55word!",
	}
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	f := gofakeit.New(7)
	svc := NewService(NewMemoryStore(), testPasswords())
	in := fakeRegistration(f)

	u, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in.LoginID, u.LoginID)
	assert.Equal(t, DefaultProfileImageURL, u.ProfileImageOrDefault())
	assert.NotEqual(t, in.Password, u.PasswordHash)

	ok, err := testPasswords().Verify(u.PasswordHash, in.Password)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_Register_Conflicts(t *testing.T) {
	t.Parallel()

	f := gofakeit.New(11)
	svc := NewService(NewMemoryStore(), testPasswords())
	first := fakeRegistration(f)

	_, err := svc.Register(context.Background(), first)
	require.NoError(t, err)

	again := fakeRegistration(f)
	again.LoginID = first.LoginID
	_, err = svc.Register(context.Background(), again)
	field, ok := ConflictField(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, FieldLoginID, field)

	again = fakeRegistration(f)
	again.Nickname = first.Nickname
	_, err = svc.Register(context.Background(), again)
	field, ok = ConflictField(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, FieldNickname, field)
}

func TestService_Register_InvalidDoesNotPersist(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	svc := NewService(store, testPasswords())

	in := fakeRegistration(gofakeit.New(3))
	in.Password = "short"

	_, err := svc.Register(context.Background(), in)
	require.True(t, IsInvalidInput(err))

	_, err = store.FindByLoginID(context.Background(), in.LoginID)
	require.True(t, IsNotFound(err))
}

func TestService_Get(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryStore(), testPasswords())
	u, err := svc.Register(context.Background(), fakeRegistration(gofakeit.New(5)))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Nickname, got.Nickname)

	_, err = svc.Get(context.Background(), 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.Get(context.Background(), u.ID+100)
	assert.True(t, IsNotFound(err))
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingo/internal/models/request_models"
	"lingo/pkg/memcache"
	"lingo/pkg/utils"
)

func newAccountServiceForTest() (AccountServiceInterface, *fakeAccountRepo, *fakeMailService, *memcache.ResetTokens) {
	repo := newFakeAccountRepo()
	mail := &fakeMailService{}
	tokens := memcache.NewResetTokens()
	return NewAccountService(repo, mail, tokens), repo, mail, tokens
}

func TestSignUpAndLogin(t *testing.T) {
	svc, _, _, _ := newAccountServiceForTest()

	err := svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		DisplayName: "Test User",
		Email:       "user@example.com",
		Password:    "s3cret-pass",
	})
	require.NoError(t, err)

	token, err := svc.Login(request_models.LoginRequest{
		Email:    "user@example.com",
		Password: "s3cret-pass",
	}, context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newAccountServiceForTest()

	require.NoError(t, svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		DisplayName: "Test User",
		Email:       "user@example.com",
		Password:    "right-password",
	}))

	_, err := svc.Login(request_models.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong-password",
	}, context.Background())

	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newAccountServiceForTest()

	_, err := svc.Login(request_models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	}, context.Background())

	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAccountServiceForTest()

	req := request_models.SignUpRequest{DisplayName: "A", Email: "dup@example.com", Password: "password1"}
	require.NoError(t, svc.CreateAccount(context.Background(), req))

	err := svc.CreateAccount(context.Background(), req)

	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestForgotPasswordUnknownEmailDoesNotLeak(t *testing.T) {
	svc, _, mail, _ := newAccountServiceForTest()

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")

	require.NoError(t, err, "unknown email must look identical to a known one")
	assert.Empty(t, mail.sent)
}

func TestForgotPasswordSendsResetMail(t *testing.T) {
	svc, _, mail, _ := newAccountServiceForTest()

	require.NoError(t, svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		DisplayName: "Test User",
		Email:       "user@example.com",
		Password:    "old-password",
	}))

	require.NoError(t, svc.ForgotPassword(context.Background(), "user@example.com"))
	assert.Equal(t, []string{"user@example.com"}, mail.sent)
}

func TestResetPasswordTokenIsSingleUse(t *testing.T) {
	svc, _, _, tokens := newAccountServiceForTest()

	require.NoError(t, svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		DisplayName: "Test User",
		Email:       "user@example.com",
		Password:    "old-password",
	}))

	// Plant the token the way ForgotPassword would; the real token only
	// travels inside the reset mail.
	tokens.Set("reset-token", "user@example.com", 30*time.Minute)

	require.NoError(t, svc.ResetPassword(context.Background(), "reset-token", "new-password"))

	err := svc.ResetPassword(context.Background(), "reset-token", "another-password")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestResetPasswordBadToken(t *testing.T) {
	svc, _, _, _ := newAccountServiceForTest()

	err := svc.ResetPassword(context.Background(), "does-not-exist", "new-password")

	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

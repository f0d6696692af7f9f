package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
	"github.com/fintrackhq/fintrack/internal/usecase/mocks"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	uc := usecase.NewUserUseCase(mocks.NewMockUserRepository())
	ctx := context.Background()

	user, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "ravi@example.com",
		Name:     "Ravi",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Role != domain.RoleMember {
		t.Errorf("role = %s, want member default", user.Role)
	}

	if user.PasswordHash != "" {
		t.Errorf("password hash leaked in response")
	}

	authed, err := uc.Authenticate(ctx, usecase.AuthenticateInput{
		Email:    "ravi@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if authed.ID != user.ID {
		t.Errorf("authenticated id = %d, want %d", authed.ID, user.ID)
	}

	if authed.PasswordHash != "" {
		t.Errorf("password hash leaked in response")
	}

	// Scrubbing the returned user must not touch the stored
	// credential, or every login after the first would fail.
	if _, err := uc.Authenticate(ctx, usecase.AuthenticateInput{
		Email:    "ravi@example.com",
		Password: "correct horse battery",
	}); err != nil {
		t.Fatalf("second authenticate: %v", err)
	}

	if fetched, err := uc.GetUser(ctx, user.ID); err != nil || fetched.PasswordHash != "" {
		t.Errorf("get user = %+v, %v", fetched, err)
	}

	_, err = uc.Authenticate(ctx, usecase.AuthenticateInput{
		Email:    "ravi@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want %v", err, domain.ErrInvalidCredentials)
	}
}

func TestRegisterValidation(t *testing.T) {
	uc := usecase.NewUserUseCase(mocks.NewMockUserRepository())
	ctx := context.Background()

	if _, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "not-an-email",
		Password: "long enough pw",
	}); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Errorf("err = %v, want %v", err, domain.ErrInvalidEmail)
	}

	if _, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "ok@example.com",
		Password: "short",
	}); !errors.Is(err, domain.ErrPasswordTooWeak) {
		t.Errorf("err = %v, want %v", err, domain.ErrPasswordTooWeak)
	}

	if _, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "dupe@example.com",
		Password: "long enough pw",
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "dupe@example.com",
		Password: "long enough pw",
	}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("err = %v, want %v", err, domain.ErrEmailTaken)
	}
}

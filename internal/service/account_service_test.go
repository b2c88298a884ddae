package service

import (
	"context"
	"io"
	"testing"
	"time"

	"galli2globe/internal/events"
	"galli2globe/internal/models"
	"galli2globe/internal/session"
	"galli2globe/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAccountService(t *testing.T) (*AccountService, *store.Records) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	records := store.NewRecords(store.NewMemoryKV(), &logger)
	sessions := session.NewManager(session.NewMemoryRepository(time.Hour), &logger)
	return NewAccountService(records, sessions, events.NewEventBus(), &logger), records
}

func TestSignUp(t *testing.T) {
	svc, records := newAccountService(t)
	ctx := context.Background()

	user, sess, err := svc.SignUp(ctx, models.SignUpInput{
		Name:          "Asha Verma",
		Email:         "Asha@Example.com",
		Password:      "wanderlust",
		TravelStyle:   models.TravelStyleWellness,
		AcceptedTerms: true,
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, sess)

	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, user.Email, sess.Email)
	assert.NotNil(t, user.Wishlist)
	assert.Empty(t, user.Wishlist)
	assert.False(t, user.JoinedDate.IsZero())

	// The password is stored hashed, never in the clear.
	assert.NotEqual(t, "wanderlust", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("wanderlust")))

	stored, err := records.User(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, user.Email, stored.Email)
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, models.SignUpInput{Name: "A", Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, ErrTermsNotAccepted)

	_, _, err = svc.SignUp(ctx, models.SignUpInput{Email: "a@b.c", Password: "x", AcceptedTerms: true})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.SignUp(ctx, models.SignUpInput{Name: "A", Password: "x", AcceptedTerms: true})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.SignUp(ctx, models.SignUpInput{Name: "A", Email: "a@b.c", AcceptedTerms: true})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.SignUp(ctx, models.SignUpInput{
		Name: "A", Email: "a@b.c", Password: "x", TravelStyle: "spelunking", AcceptedTerms: true,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSignUpReplacesPriorAccount(t *testing.T) {
	svc, records := newAccountService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, models.SignUpInput{
		Name: "First", Email: "first@example.com", Password: "pw", AcceptedTerms: true,
	})
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, models.SignUpInput{
		Name: "Second", Email: "second@example.com", Password: "pw", AcceptedTerms: true,
	})
	require.NoError(t, err)

	stored, err := records.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", stored.Email)

	email, _ := records.UserEmail(ctx)
	assert.Equal(t, "second@example.com", email)
}

func TestLogIn(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, models.SignUpInput{
		Name: "Asha", Email: "asha@example.com", Password: "wanderlust", AcceptedTerms: true,
	})
	require.NoError(t, err)

	user, sess, err := svc.LogIn(ctx, "asha@example.com", "wanderlust")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEmpty(t, sess.Token)
}

func TestLogInUnknownEmailFails(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, models.SignUpInput{
		Name: "Asha", Email: "asha@example.com", Password: "wanderlust", AcceptedTerms: true,
	})
	require.NoError(t, err)

	// No silent auto-registration: the unknown email is rejected outright.
	_, _, err = svc.LogIn(ctx, "stranger@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUnknownEmail)
}

func TestLogInWrongPassword(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, models.SignUpInput{
		Name: "Asha", Email: "asha@example.com", Password: "wanderlust", AcceptedTerms: true,
	})
	require.NoError(t, err)

	_, _, err = svc.LogIn(ctx, "asha@example.com", "guessing")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogOutKeepsBookings(t *testing.T) {
	svc, records := newAccountService(t)
	ctx := context.Background()

	_, sess, err := svc.SignUp(ctx, models.SignUpInput{
		Name: "Asha", Email: "asha@example.com", Password: "pw", AcceptedTerms: true,
	})
	require.NoError(t, err)

	require.NoError(t, records.SaveBookings(ctx, []models.Booking{{ID: "BK1", Status: models.StatusConfirmed}}))

	require.NoError(t, svc.LogOut(ctx, sess))

	user, err := records.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	bookings, err := records.Bookings(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestUpdateProfile(t *testing.T) {
	svc, records := newAccountService(t)
	ctx := context.Background()

	_, sess, err := svc.SignUp(ctx, models.SignUpInput{
		Name: "Asha", Email: "asha@example.com", Password: "pw", AcceptedTerms: true,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, sess, models.ProfileUpdate{
		Phone:       "+91 98765 43210",
		Country:     "India",
		TravelStyle: models.TravelStyleCulture,
	})
	require.NoError(t, err)
	assert.Equal(t, "+91 98765 43210", updated.Phone)
	assert.Equal(t, "India", updated.Country)
	assert.Equal(t, models.TravelStyleCulture, updated.TravelStyle)
	assert.False(t, updated.UpdatedAt.IsZero())

	// Untouched fields survive the merge.
	assert.Equal(t, "Asha", updated.Name)
	assert.Equal(t, "asha@example.com", updated.Email)

	stored, _ := records.User(ctx)
	assert.Equal(t, "+91 98765 43210", stored.Phone)
}

func TestUpdateProfileEmailChangeFollowsSession(t *testing.T) {
	svc, records := newAccountService(t)
	ctx := context.Background()

	_, sess, err := svc.SignUp(ctx, models.SignUpInput{
		Name: "Asha", Email: "asha@example.com", Password: "pw", AcceptedTerms: true,
	})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, sess, models.ProfileUpdate{Email: "asha.verma@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "asha.verma@example.com", sess.Email)

	email, _ := records.UserEmail(ctx)
	assert.Equal(t, "asha.verma@example.com", email)
}

func TestUpdateProfileWithoutAccount(t *testing.T) {
	svc, _ := newAccountService(t)

	_, err := svc.UpdateProfile(context.Background(), &models.Session{Token: "t", Email: "x"}, models.ProfileUpdate{Name: "X"})
	assert.ErrorIs(t, err, ErrNoAccount)
}

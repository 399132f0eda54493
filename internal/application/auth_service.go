package application

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/pkg/apierror"
	"github.com/atlastrek/tours-api/pkg/helpers"
	"github.com/atlastrek/tours-api/pkg/mailer"
	tpl "github.com/atlastrek/tours-api/pkg/mailer/templates"
)

const resetTokenTTL = 10 * time.Minute

// AuthService implements the credential lifecycle: signup, login, password
// reset and password change.
type AuthService struct {
	Users  repository.UserRepository
	Mailer mailer.Sender // synchronous: reset mail failure must surface
	Queue  QueuePublisher
	Logger *logrus.Logger

	ResetPasswordURL string
	FrontendURL      string
	MailSendEnabled  bool
}

// QueuePublisher is the best-effort notification path (welcome mail).
type QueuePublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

func NewAuthService(users repository.UserRepository, m mailer.Sender, q QueuePublisher, logger *logrus.Logger, resetURL, frontendURL string, mailEnabled bool) *AuthService {
	return &AuthService{
		Users:            users,
		Mailer:           m,
		Queue:            q,
		Logger:           logger,
		ResetPasswordURL: resetURL,
		FrontendURL:      frontendURL,
		MailSendEnabled:  mailEnabled,
	}
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            entity.Role
}

// Signup creates a principal, hashes its password and enqueues the welcome
// mail. Notification failure never rolls back account creation.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, apierror.New(apierror.Validation, "passwords do not match")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role == entity.RoleAdmin {
		return nil, apierror.New(apierror.Validation, "cannot sign up with that role")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Photo:        "default.jpg",
		Role:         role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	if s.Queue != nil && s.MailSendEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: "welcome",
			Data:     map[string]any{"Name": u.Name, "URL": s.FrontendURL + "/me"},
		}
		if err := s.Queue.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome mail enqueue failed")
		}
	}
	return u, nil
}

// Login verifies email and password among active accounts. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierror.New(apierror.InvalidCredentials, "incorrect email or password")
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, apierror.New(apierror.InvalidCredentials, "incorrect email or password")
	}
	return u, nil
}

// ForgotPassword issues a reset token, persists its digest with a short
// expiry and mails the plaintext. If the mail cannot be delivered the stored
// fields are cleared again so no unreachable token stays valid.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apierror.New(apierror.NotFound, "there is no user with that email")
		}
		return err
	}

	plain, digest, err := helpers.GenResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetTokenTTL)
	if _, err := s.Users.UpdateByID(ctx, u.ID, map[string]any{
		"password_reset_token":   digest,
		"password_reset_expires": expires,
	}); err != nil {
		return err
	}

	if err := s.sendResetMail(ctx, u, plain); err != nil {
		if _, clearErr := s.Users.UpdateByID(ctx, u.ID, map[string]any{
			"password_reset_token":   nil,
			"password_reset_expires": nil,
		}); clearErr != nil && s.Logger != nil {
			s.Logger.WithError(clearErr).WithField("user_id", u.ID).Error("clearing reset token failed")
		}
		return apierror.Wrap(apierror.UpstreamFailure, "there was an error sending the email, please try again later", err)
	}
	return nil
}

func (s *AuthService) sendResetMail(ctx context.Context, u *entity.User, token string) error {
	if !s.MailSendEnabled || s.Mailer == nil {
		if s.Logger != nil {
			s.Logger.WithField("user_id", u.ID).Debug("mail sending disabled, skipping reset mail")
		}
		return nil
	}
	subject, text, html, err := tpl.Render("password_reset", map[string]any{
		"Name": u.Name,
		"URL":  s.ResetPasswordURL + "/" + token,
	})
	if err != nil {
		return err
	}
	return s.Mailer.Send(ctx, u.Email, subject, text, html)
}

// ResetPassword consumes a plaintext reset token: the stored digest must
// match and must not have expired. The token is single-use.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) (*entity.User, error) {
	if password != confirm {
		return nil, apierror.New(apierror.Validation, "passwords do not match")
	}
	u, err := s.Users.FindByResetToken(ctx, helpers.HashResetToken(token), time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierror.New(apierror.InvalidOrExpiredToken, "the token is invalid or expired")
		}
		return nil, err
	}
	return s.setPassword(ctx, u.ID, password)
}

// UpdatePassword verifies the current password before accepting a new one
// for an already-authenticated principal.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, password, confirm string) (*entity.User, error) {
	if password != confirm {
		return nil, apierror.New(apierror.Validation, "passwords do not match")
	}
	u, err := s.Users.FindActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierror.New(apierror.Unauthenticated, "the user belonging to this token no longer exists")
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, current) {
		return nil, apierror.New(apierror.InvalidCredentials, "your current password is incorrect")
	}
	return s.setPassword(ctx, u.ID, password)
}

// setPassword re-hashes, stamps password_changed_at slightly in the past so
// a token issued in the same second still counts as stale, and clears any
// outstanding reset token.
func (s *AuthService) setPassword(ctx context.Context, userID, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.Users.UpdateByID(ctx, userID, map[string]any{
		"password_hash":          hash,
		"password_changed_at":    time.Now().Add(-time.Second),
		"password_reset_token":   nil,
		"password_reset_expires": nil,
	})
}

package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/pkg/apierror"
	"github.com/atlastrek/tours-api/pkg/helpers"
)

// Fields a principal may change about itself. Everything privileged
// (password, role, active, reset fields) is stripped before the update.
var selfUpdatable = map[string]bool{"name": true, "email": true, "photo": true}

type UserService struct {
	Users     repository.UserRepository
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewUserService(users repository.UserRepository, gcs *storage.Client, bucket string, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, GCS: gcs, GCSBucket: bucket, Logger: logger}
}

// UpdateMe applies a self-update, silently dropping privileged fields.
// Password changes go through the dedicated password route.
func (s *UserService) UpdateMe(ctx context.Context, userID string, body map[string]any) (*entity.User, error) {
	if _, ok := body["password"]; ok {
		return nil, apierror.New(apierror.Validation, "this route is not for password updates, please use /update-password")
	}
	patch := make(map[string]any, len(body))
	for k, v := range body {
		if selfUpdatable[k] {
			patch[k] = v
		}
	}
	return s.Users.UpdateByID(ctx, userID, patch)
}

// DeleteMe soft-deletes the account; the row stays for bookings and reviews
// but the principal can no longer authenticate.
func (s *UserService) DeleteMe(ctx context.Context, userID string) error {
	_, err := s.Users.UpdateByID(ctx, userID, map[string]any{"active": false})
	return err
}

// UploadPhoto stores a profile photo in the bucket and records its URL.
func (s *UserService) UploadPhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, apierror.New(apierror.UpstreamFailure, "photo storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apierror.New(apierror.Validation, "please upload only images")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("users", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, apierror.Wrap(apierror.UpstreamFailure, "photo upload failed", err)
	}
	return s.Users.UpdateByID(ctx, userID, map[string]any{"photo": url})
}

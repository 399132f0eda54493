package application

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/pkg/apierror"
	"github.com/atlastrek/tours-api/pkg/helpers"
)

type TourService struct {
	Tours     repository.TourRepository
	GCS       *storage.Client
	GCSBucket string
	ES        *elasticsearch.Client
	ESIndex   string
	Logger    *logrus.Logger
}

func NewTourService(tours repository.TourRepository, gcs *storage.Client, bucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *TourService {
	return &TourService{Tours: tours, GCS: gcs, GCSBucket: bucket, ES: es, ESIndex: esIndex, Logger: logger}
}

// Slugify is the explicit create/update stage that derives the URL slug from
// the tour name.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Create persists a tour after running the slug stage, then indexes it for
// search.
func (s *TourService) Create(ctx context.Context, t *entity.Tour) error {
	t.Slug = Slugify(t.Name)
	if err := s.Tours.Create(ctx, t); err != nil {
		return err
	}
	s.index(ctx, t)
	return nil
}

// Update applies a partial update; renames re-run the slug stage.
func (s *TourService) Update(ctx context.Context, id string, patch map[string]any) (*entity.Tour, error) {
	if name, ok := patch["name"].(string); ok {
		patch["slug"] = Slugify(name)
	}
	t, err := s.Tours.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.index(ctx, t)
	return t, nil
}

func (s *TourService) Delete(ctx context.Context, id string) error {
	if err := s.Tours.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.deindex(ctx, id)
	return nil
}

// ImageUpload is one incoming image file.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// UploadImages stores the cover and gallery images for the tour and records
// their URLs. Resizing is not done here.
func (s *TourService) UploadImages(ctx context.Context, tourID string, cover *ImageUpload, gallery []ImageUpload) (*entity.Tour, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, apierror.New(apierror.UpstreamFailure, "image storage is not configured")
	}
	patch := map[string]any{}
	if cover != nil {
		url, err := s.storeImage(ctx, tourID, *cover)
		if err != nil {
			return nil, err
		}
		patch["image_cover"] = url
	}
	if len(gallery) > 0 {
		urls := make([]string, 0, len(gallery))
		for _, img := range gallery {
			url, err := s.storeImage(ctx, tourID, img)
			if err != nil {
				return nil, err
			}
			urls = append(urls, url)
		}
		patch["images"] = urls
	}
	if len(patch) == 0 {
		return nil, apierror.New(apierror.Validation, "image_cover or images files are required")
	}
	t, err := s.Tours.UpdateByID(ctx, tourID, patch)
	if err != nil {
		return nil, err
	}
	s.index(ctx, t)
	return t, nil
}

func (s *TourService) storeImage(ctx context.Context, tourID string, img ImageUpload) (string, error) {
	if !strings.HasPrefix(img.ContentType, "image/") {
		return "", apierror.New(apierror.Validation, "please upload only images")
	}
	ext := strings.ToLower(filepath.Ext(img.Filename))
	objectPath := filepath.ToSlash(filepath.Join("tours", tourID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, img.ContentType, img.Reader)
	if err != nil {
		return "", apierror.Wrap(apierror.UpstreamFailure, "image upload failed", err)
	}
	return url, nil
}

func (s *TourService) Stats(ctx context.Context) ([]repository.TourStats, error) {
	return s.Tours.Stats(ctx)
}

func (s *TourService) MonthlyPlan(ctx context.Context, year int) ([]repository.MonthPlan, error) {
	return s.Tours.MonthlyPlan(ctx, year)
}

func (s *TourService) index(ctx context.Context, t *entity.Tour) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          t.ID,
		"name":        t.Name,
		"slug":        t.Slug,
		"summary":     t.Summary,
		"description": t.Description,
		"difficulty":  t.Difficulty,
		"price":       t.Price,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("tour_id", t.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("tour_id", t.ID).Warn("es index response error")
	}
}

func (s *TourService) deindex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if res, err := req.Do(c, s.ES); err == nil {
		_ = res.Body.Close()
	}
}

// Search runs a multi_match over name, summary and description.
func (s *TourService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "summary", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, apierror.Wrap(apierror.UpstreamFailure, "search is unavailable", err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mariiahub/booking-api/internal/domain/baas"
	"github.com/mariiahub/booking-api/internal/domain/scheduling"
	apperrors "github.com/mariiahub/booking-api/pkg/errors"
	"github.com/mariiahub/booking-api/pkg/util"
)

// Service manages the services catalog and the gallery through BaaS tables.
type Service interface {
	ListServices(ctx context.Context, filter ServiceFilter) ([]ServiceItem, error)
	GetService(ctx context.Context, id string) (ServiceItem, error)
	CreateService(ctx context.Context, in ServiceInput) (ServiceItem, error)
	UpdateService(ctx context.Context, id string, in ServiceInput) (ServiceItem, error)
	DeleteService(ctx context.Context, id string) error
	ReorderServices(ctx context.Context, ids []string) error
	LookupOffer(ctx context.Context, serviceType string) (scheduling.Offer, bool, error)

	ListGallery(ctx context.Context) ([]GalleryItem, error)
	UploadImage(ctx context.Context, req UploadRequest) (GalleryItem, error)
	DeleteImage(ctx context.Context, id string) error
	ReorderGallery(ctx context.Context, ids []string) error
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type service struct {
	cfg     Config
	records baas.RecordStore
	files   baas.FileStorage
	logger  *slog.Logger
	now     util.Clock
}

// NewService constructs the catalog service.
func NewService(cfg Config, records baas.RecordStore, files baas.FileStorage, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		records: records,
		files:   files,
		logger:  logger.With("component", "catalog.service"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) ListServices(ctx context.Context, filter ServiceFilter) ([]ServiceItem, error) {
	items, err := loadAll[ServiceItem](ctx, s.records, baas.TableServices)
	if err != nil {
		return nil, apperrors.Wrap("catalog_error", "failed to load services", err)
	}
	out := items[:0]
	for _, item := range items {
		if filter.ActiveOnly && !item.Active {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *service) GetService(ctx context.Context, id string) (ServiceItem, error) {
	rec, found, err := s.records.Get(ctx, baas.TableServices, id)
	if err != nil {
		return ServiceItem{}, apperrors.Wrap("catalog_error", "failed to load service", err)
	}
	if !found {
		return ServiceItem{}, apperrors.Wrap("not_found", "service not found", nil)
	}
	var item ServiceItem
	if err := json.Unmarshal(rec.Data, &item); err != nil {
		return ServiceItem{}, apperrors.Wrap("catalog_error", "corrupt service record", err)
	}
	return item, nil
}

func (s *service) CreateService(ctx context.Context, in ServiceInput) (ServiceItem, error) {
	if err := validateServiceInput(in); err != nil {
		return ServiceItem{}, err
	}
	existing, err := s.ListServices(ctx, ServiceFilter{})
	if err != nil {
		return ServiceItem{}, err
	}
	now := s.now()
	item := ServiceItem{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		Category:        in.Category,
		Description:     strings.TrimSpace(in.Description),
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price,
		Active:          in.Active == nil || *in.Active,
		Position:        nextPosition(existing, func(it ServiceItem) int { return it.Position }),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.insert(ctx, baas.TableServices, item.ID, item); err != nil {
		return ServiceItem{}, err
	}
	s.logger.Info("service created", "service_id", item.ID, "category", item.Category)
	return item, nil
}

func (s *service) UpdateService(ctx context.Context, id string, in ServiceInput) (ServiceItem, error) {
	if err := validateServiceInput(in); err != nil {
		return ServiceItem{}, err
	}
	item, err := s.GetService(ctx, id)
	if err != nil {
		return ServiceItem{}, err
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Category = in.Category
	item.Description = strings.TrimSpace(in.Description)
	item.DurationMinutes = in.DurationMinutes
	item.Price = in.Price
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = s.now()
	if err := s.update(ctx, baas.TableServices, item.ID, item); err != nil {
		return ServiceItem{}, err
	}
	return item, nil
}

func (s *service) DeleteService(ctx context.Context, id string) error {
	if err := s.records.Delete(ctx, baas.TableServices, id); err != nil {
		if errors.Is(err, baas.ErrRecordNotFound) {
			return apperrors.Wrap("not_found", "service not found", err)
		}
		return apperrors.Wrap("catalog_error", "failed to delete service", err)
	}
	return nil
}

func (s *service) ReorderServices(ctx context.Context, ids []string) error {
	items, err := s.ListServices(ctx, ServiceFilter{})
	if err != nil {
		return err
	}
	current := make([]string, len(items))
	for i, item := range items {
		current[i] = item.ID
	}
	positions, err := resolveOrder(current, ids)
	if err != nil {
		return err
	}
	for _, item := range items {
		pos := positions[item.ID]
		if pos == item.Position {
			continue
		}
		item.Position = pos
		item.UpdatedAt = s.now()
		if err := s.update(ctx, baas.TableServices, item.ID, item); err != nil {
			return err
		}
	}
	return nil
}

// LookupOffer matches serviceType against id, then name, then category.
func (s *service) LookupOffer(ctx context.Context, serviceType string) (scheduling.Offer, bool, error) {
	items, err := s.ListServices(ctx, ServiceFilter{ActiveOnly: true})
	if err != nil {
		return scheduling.Offer{}, false, err
	}
	needle := strings.TrimSpace(serviceType)
	for _, item := range items {
		if item.ID == needle || strings.EqualFold(item.Name, needle) {
			return item.offer(), true, nil
		}
	}
	for _, item := range items {
		if strings.EqualFold(string(item.Category), needle) {
			return item.offer(), true, nil
		}
	}
	return scheduling.Offer{}, false, nil
}

func (s *service) ListGallery(ctx context.Context) ([]GalleryItem, error) {
	items, err := loadAll[GalleryItem](ctx, s.records, baas.TableGallery)
	if err != nil {
		return nil, apperrors.Wrap("catalog_error", "failed to load gallery", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, nil
}

func (s *service) UploadImage(ctx context.Context, req UploadRequest) (GalleryItem, error) {
	if len(req.Content) == 0 {
		return GalleryItem{}, apperrors.Wrap("invalid_input", "image content cannot be empty", nil)
	}
	if s.cfg.MaxImageBytes > 0 && int64(len(req.Content)) > s.cfg.MaxImageBytes {
		return GalleryItem{}, apperrors.WithDescription(
			apperrors.Wrap("invalid_input", "image exceeds maximum allowed size", nil),
			fmt.Sprintf("Images must be at most %d KB.", s.cfg.MaxImageBytes/1024))
	}
	mime := strings.TrimSpace(req.MimeType)
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(req.Content)
	}
	ext, ok := allowedImageTypes[mime]
	if !ok {
		return GalleryItem{}, apperrors.Wrap("invalid_input", "unsupported image type "+mime, nil)
	}
	existing, err := s.ListGallery(ctx)
	if err != nil {
		return GalleryItem{}, err
	}

	id := uuid.NewString()
	key := fmt.Sprintf("gallery/%s%s", id, ext)
	stored, err := s.files.Upload(ctx, key, req.Content, mime)
	if err != nil {
		return GalleryItem{}, apperrors.WithDescription(
			apperrors.Wrap("storage_error", "failed to upload image", err),
			"The image could not be uploaded. Please try again.")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(path.Base(req.Filename), path.Ext(req.Filename))
	}
	item := GalleryItem{
		ID:         id,
		Title:      title,
		URL:        stored.URL,
		StorageKey: stored.Key,
		MimeType:   mime,
		SizeBytes:  stored.Size,
		Position:   nextPosition(existing, func(it GalleryItem) int { return it.Position }),
		CreatedAt:  s.now(),
	}
	if err := s.insert(ctx, baas.TableGallery, item.ID, item); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned gallery object", "key", key, "error", delErr)
		}
		return GalleryItem{}, err
	}
	return item, nil
}

func (s *service) DeleteImage(ctx context.Context, id string) error {
	rec, found, err := s.records.Get(ctx, baas.TableGallery, id)
	if err != nil {
		return apperrors.Wrap("catalog_error", "failed to load gallery item", err)
	}
	if !found {
		return apperrors.Wrap("not_found", "gallery item not found", nil)
	}
	var item GalleryItem
	if err := json.Unmarshal(rec.Data, &item); err != nil {
		return apperrors.Wrap("catalog_error", "corrupt gallery record", err)
	}
	if err := s.records.Delete(ctx, baas.TableGallery, id); err != nil {
		return apperrors.Wrap("catalog_error", "failed to delete gallery item", err)
	}
	if item.StorageKey != "" {
		if err := s.files.Delete(ctx, item.StorageKey); err != nil {
			s.logger.Warn("gallery object delete failed", "key", item.StorageKey, "error", err)
		}
	}
	return nil
}

func (s *service) ReorderGallery(ctx context.Context, ids []string) error {
	items, err := s.ListGallery(ctx)
	if err != nil {
		return err
	}
	current := make([]string, len(items))
	for i, item := range items {
		current[i] = item.ID
	}
	positions, err := resolveOrder(current, ids)
	if err != nil {
		return err
	}
	for _, item := range items {
		pos := positions[item.ID]
		if pos == item.Position {
			continue
		}
		item.Position = pos
		if err := s.update(ctx, baas.TableGallery, item.ID, item); err != nil {
			return err
		}
	}
	return nil
}

// nextPosition appends after the highest position so deletions never cause ties.
func nextPosition[T any](items []T, position func(T) int) int {
	next := 0
	for _, item := range items {
		if p := position(item); p >= next {
			next = p + 1
		}
	}
	return next
}

func (s *service) insert(ctx context.Context, table, id string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrap("catalog_error", "failed to encode record", err)
	}
	if _, err := s.records.Insert(ctx, table, id, payload); err != nil {
		return apperrors.Wrap("catalog_error", "failed to insert record", err)
	}
	return nil
}

func (s *service) update(ctx context.Context, table, id string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrap("catalog_error", "failed to encode record", err)
	}
	if _, err := s.records.Update(ctx, table, id, payload); err != nil {
		if errors.Is(err, baas.ErrRecordNotFound) {
			return apperrors.Wrap("not_found", "record not found", err)
		}
		return apperrors.Wrap("catalog_error", "failed to update record", err)
	}
	return nil
}

func loadAll[T any](ctx context.Context, store baas.RecordStore, table string) ([]T, error) {
	records, err := store.List(ctx, table)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		var item T
		if err := json.Unmarshal(rec.Data, &item); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", table, rec.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// resolveOrder maps every id in current to its index in ids. ids must be a permutation of current.
func resolveOrder(current, ids []string) (map[string]int, error) {
	if len(ids) != len(current) {
		return nil, apperrors.Wrap("invalid_input", "order must list every item exactly once", nil)
	}
	known := make(map[string]struct{}, len(current))
	for _, id := range current {
		known[id] = struct{}{}
	}
	positions := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, ok := known[id]; !ok {
			return nil, apperrors.Wrap("invalid_input", "unknown item "+id, nil)
		}
		if _, dup := positions[id]; dup {
			return nil, apperrors.Wrap("invalid_input", "duplicate item "+id, nil)
		}
		positions[id] = i
	}
	return positions, nil
}

func validateServiceInput(in ServiceInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return apperrors.Wrap("invalid_input", "service name cannot be empty", nil)
	case !in.Category.Valid():
		return apperrors.Wrap("invalid_input", "unknown service category", nil)
	case in.DurationMinutes <= 0:
		return apperrors.Wrap("invalid_input", "duration must be positive", nil)
	case in.Price < 0:
		return apperrors.Wrap("invalid_input", "price cannot be negative", nil)
	}
	return nil
}

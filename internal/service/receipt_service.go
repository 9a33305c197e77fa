package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/repository/storage"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/websocket"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

const (
	MaxImageSize       = 5 * 1024 * 1024 // 5MB
	MinImageWidth      = 50
	MinImageHeight     = 50
	ThumbnailMaxSide   = 300
	DisplayMaxSide     = 1600
	JPEGQuality        = 85
	ReceiptURLLifetime = 15 * time.Minute

	variantDisplay = "display"
	variantThumb   = "thumb"
)

var (
	ErrImageTooLarge    = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat    = errors.New("invalid format. Supported: JPEG, PNG, GIF")
	ErrImageTooSmall    = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData = errors.New("invalid image data")
	ErrStorageDisabled  = errors.New("receipt storage not configured")
	ErrNoReceipt        = errors.New("expense has no receipt")
)

// AllowedImageFormats lists the decoder names accepted for receipts
var AllowedImageFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// ReceiptURLs are short-lived links to a stored receipt
type ReceiptURLs struct {
	DisplayURL   string    `json:"displayUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ReceiptService validates receipt photos, stores resized variants and
// hands out presigned links
type ReceiptService struct {
	expenseRepo    domain.ExpenseRepository
	storage        storage.ObjectStorage
	eventPublisher websocket.EventPublisher
}

// NewReceiptService creates a new ReceiptService. A nil store disables uploads.
func NewReceiptService(expenseRepo domain.ExpenseRepository, store storage.ObjectStorage) *ReceiptService {
	return &ReceiptService{expenseRepo: expenseRepo, storage: store}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReceiptService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// IsEnabled reports whether object storage is configured
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// ValidateImage checks size, format and dimensions and returns the decoded image
func (s *ReceiptService) ValidateImage(data []byte) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}
	if !AllowedImageFormats[format] {
		return nil, ErrInvalidFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}
	return img, nil
}

// AttachReceipt stores a receipt photo for an expense, replacing any previous one
func (s *ReceiptService) AttachReceipt(ctx context.Context, tripID, expenseID int32, data []byte) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrStorageDisabled
	}

	expense, err := s.expenseRepo.GetByID(tripID, expenseID)
	if err != nil {
		return nil, err
	}

	img, err := s.ValidateImage(data)
	if err != nil {
		return nil, err
	}

	displayPath := storage.ReceiptObjectPath(tripID, expenseID, variantDisplay)
	thumbPath := storage.VariantPath(displayPath, variantDisplay, variantThumb)

	variants := []struct {
		path    string
		maxSide int
	}{
		{displayPath, DisplayMaxSide},
		{thumbPath, ThumbnailMaxSide},
	}

	uploaded := make([]string, 0, len(variants))
	for _, variant := range variants {
		if err := s.uploadVariant(ctx, img, variant.path, variant.maxSide); err != nil {
			s.cleanup(ctx, uploaded...)
			return nil, err
		}
		uploaded = append(uploaded, variant.path)
	}

	if err := s.expenseRepo.SetReceiptPath(tripID, expenseID, &displayPath); err != nil {
		s.cleanup(ctx, uploaded...)
		return nil, err
	}

	if expense.ReceiptPath != nil {
		old := *expense.ReceiptPath
		s.cleanup(ctx, old, storage.VariantPath(old, variantDisplay, variantThumb))
	}

	urls, err := s.presign(ctx, displayPath)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(tripID, websocket.ReceiptAttached(map[string]int32{"expenseId": expenseID}))
	}
	return urls, nil
}

// GetReceiptURLs returns presigned links to an expense's receipt
func (s *ReceiptService) GetReceiptURLs(ctx context.Context, tripID, expenseID int32) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrStorageDisabled
	}

	expense, err := s.expenseRepo.GetByID(tripID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptPath == nil {
		return nil, ErrNoReceipt
	}
	return s.presign(ctx, *expense.ReceiptPath)
}

// RemoveReceipt deletes an expense's receipt
func (s *ReceiptService) RemoveReceipt(ctx context.Context, tripID, expenseID int32) error {
	if !s.IsEnabled() {
		return ErrStorageDisabled
	}

	expense, err := s.expenseRepo.GetByID(tripID, expenseID)
	if err != nil {
		return err
	}
	if expense.ReceiptPath == nil {
		return ErrNoReceipt
	}

	old := *expense.ReceiptPath
	if err := s.expenseRepo.SetReceiptPath(tripID, expenseID, nil); err != nil {
		return err
	}
	s.cleanup(ctx, old, storage.VariantPath(old, variantDisplay, variantThumb))

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(tripID, websocket.ReceiptRemoved(map[string]int32{"expenseId": expenseID}))
	}
	return nil
}

func (s *ReceiptService) uploadVariant(ctx context.Context, img image.Image, objectPath string, maxSide int) error {
	resized := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}
	return nil
}

func (s *ReceiptService) presign(ctx context.Context, displayPath string) (*ReceiptURLs, error) {
	expiresAt := time.Now().Add(ReceiptURLLifetime).UTC()

	displayURL, err := s.storage.GeneratePresignedURL(ctx, displayPath, ReceiptURLLifetime)
	if err != nil {
		return nil, err
	}
	urls := &ReceiptURLs{DisplayURL: displayURL, ThumbnailURL: displayURL, ExpiresAt: expiresAt}

	if thumbPath := storage.VariantPath(displayPath, variantDisplay, variantThumb); thumbPath != "" {
		if thumbURL, err := s.storage.GeneratePresignedURL(ctx, thumbPath, ReceiptURLLifetime); err == nil {
			urls.ThumbnailURL = thumbURL
		}
	}
	return urls, nil
}

// cleanup deletes objects best effort
func (s *ReceiptService) cleanup(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.storage.Delete(ctx, p); err != nil {
			log.Warn().Err(err).Str("object", p).Msg("Failed to delete receipt object")
		}
	}
}

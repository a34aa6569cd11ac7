package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Service handles Cloudinary upload operations for restaurant photos and
// user avatars.
type Service struct {
	cld          *cloudinary.Cloudinary
	uploadFolder string
}

// UploadResult contains the result of a successful upload.
type UploadResult struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	FileSize int64
	Format   string
}

var (
	AllowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	MaxImageSize = int64(10 * 1024 * 1024) // 10MB
)

// NewService creates a new Cloudinary service instance.
func NewService(cloudName, apiKey, apiSecret, uploadFolder string) (*Service, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	if uploadFolder == "" {
		uploadFolder = "platewise"
	}

	return &Service{
		cld:          cld,
		uploadFolder: uploadFolder,
	}, nil
}

// UploadImage uploads an image file to Cloudinary.
func (s *Service) UploadImage(ctx context.Context, file multipart.File, filename string) (*UploadResult, error) {
	uploadParams := uploader.UploadParams{
		Folder:       s.uploadFolder + "/images",
		ResourceType: "image",
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Width:    result.Width,
		Height:   result.Height,
		FileSize: int64(result.Bytes),
		Format:   result.Format,
	}, nil
}

// Delete removes an asset from Cloudinary.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return errors.New("publicID is required")
	}

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

// ValidateImageFile validates an image file upload.
func ValidateImageFile(header *multipart.FileHeader) error {
	if header.Size > MaxImageSize {
		return fmt.Errorf("image file size exceeds maximum allowed size of %d MB", MaxImageSize/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, allowed := range AllowedImageTypes {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("invalid image file type: %s. Allowed types: %s", ext, strings.Join(AllowedImageTypes, ", "))
}

package services

import (
	"fmt"
	"mime/multipart"

	"github.com/hazel-ko/artcommissions-api/utils"
)

// ImageService is the storage seam for commission portfolio images. Controllers
// and the commission lifecycle talk to this interface; the concrete backend is
// S3 in production and an in-memory mock in tests.
type ImageService interface {
	// UploadImage validates a portfolio image and stores it, returning the storage key.
	UploadImage(fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL resolves a stored key to a client-fetchable URL.
	GetImageURL(imageKey string) (string, error)

	// DeleteImage removes a stored image. Unknown keys are not an error.
	DeleteImage(imageKey string) error
}

// S3ImageService stores portfolio images in S3 behind presigned URLs.
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService wires the image service to a storage backend.
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{s3Service: s3Service}
	return imageServiceInstance
}

// GetImageService returns the wired image service, or nil before InitImageService.
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService replaces the image service instance (primarily for testing).
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return s3Key, nil
}

// GetImageURL returns a presigned GET URL for the stored image. An empty key
// yields an empty URL so callers can pass through unset optional images.
func (s *S3ImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

func (s *S3ImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

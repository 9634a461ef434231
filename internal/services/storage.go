package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var (
	s3Client  *s3.S3
	uploader  *s3manager.Uploader
	useS3     bool
	baseURL   string
	uploadDir string
)

// InitStorage initializes either S3 or local storage based on configuration
func InitStorage() error {
	awsRegion := os.Getenv("AWS_REGION")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if awsRegion != "" && awsAccessKey != "" && awsSecretKey != "" {
		// AWS credentials are configured, use S3
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(awsRegion),
			Credentials: credentials.NewStaticCredentials(
				awsAccessKey,
				awsSecretKey,
				"",
			),
		})
		if err != nil {
			return fmt.Errorf("failed to create AWS session: %v", err)
		}

		s3Client = s3.New(sess)
		uploader = s3manager.NewUploader(sess)
		useS3 = true
		return nil
	}

	// Fallback to local storage
	useS3 = false
	uploadDir = os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "/app/uploads"
	}
	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	if err := os.MkdirAll(filepath.Join(uploadDir, "cars"), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %v", err)
	}

	return nil
}

// StoreCarPhoto persists a base64-encoded car photo and returns a URL for it.
// Data-URI prefixes ("data:image/jpeg;base64,...") are accepted and stripped.
func StoreCarPhoto(photo string) (string, error) {
	raw := photo
	if idx := strings.Index(raw, "base64,"); idx >= 0 {
		raw = raw[idx+len("base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid photo encoding: %v", err)
	}

	contentType := http.DetectContentType(data)
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)

	if useS3 {
		return uploadPhotoToS3(data, fileName, contentType)
	}
	return savePhotoLocally(data, fileName)
}

func uploadPhotoToS3(data []byte, fileName, contentType string) (string, error) {
	bucketName := os.Getenv("AWS_S3_BUCKET")
	if bucketName == "" {
		return "", fmt.Errorf("S3 bucket name not configured")
	}

	key := "cars/" + fileName
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	awsRegion := os.Getenv("AWS_REGION")
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, awsRegion, key), nil
}

func savePhotoLocally(data []byte, fileName string) (string, error) {
	filePath := filepath.Join(uploadDir, "cars", fileName)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}
	return fmt.Sprintf("%s/uploads/cars/%s", baseURL, fileName), nil
}

// DeleteCarPhoto removes a previously stored photo, best effort.
func DeleteCarPhoto(photoURL string) error {
	if photoURL == "" {
		return nil
	}
	if useS3 {
		bucketName := os.Getenv("AWS_S3_BUCKET")
		if bucketName == "" || s3Client == nil {
			return fmt.Errorf("S3 not configured")
		}
		key := "cars/" + filepath.Base(photoURL)
		_, err := s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(bucketName),
			Key:    aws.String(key),
		})
		return err
	}
	return os.Remove(filepath.Join(uploadDir, "cars", filepath.Base(photoURL)))
}

// IsUsingS3 returns true if S3 storage is being used
func IsUsingS3() bool {
	return useS3
}

package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/shared/constant"
	"hostel/shared/failure"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrFileName  = "file_name"
	otelAttrBucket    = "bucket"
	otelAttrDirectory = "directory"
	otelAttrSize      = "size"

	imageCacheControl = "public, max-age=604800"
	bytesPerKB        = 1024
)

// allowedImageTypes are the content types accepted for room and activity photos.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// S3 stores room and activity images in an S3 compatible bucket.
// Objects are keyed as <directory>/<fileName> and served from the public domain.
type S3 interface {
	UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error)
	DeleteFile(ctx context.Context, bucketName, directory, objectName string) error
	GetObjectNameFromURL(bucketName, url string) (objectName string)
}

type s3Impl struct {
	Client *s3.Client
	Config *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if bucketName == constant.Empty {
		bucketName = svc.Config.External.S3.BucketName
	}

	scope.SetAttributes(map[string]any{
		otelAttrFileName:  fileName,
		otelAttrBucket:    bucketName,
		otelAttrDirectory: directory,
	})

	data, err := readLimited(file, svc.maxImageBytes())
	if err != nil {
		return constant.Empty, err
	}

	scope.SetAttribute(otelAttrSize, len(data))

	declared := constant.Empty
	if fileHeader != nil {
		declared = fileHeader.Header.Get(constant.RequestHeaderContentType)
	}

	contentType, err := imageContentType(declared, data)
	if err != nil {
		return constant.Empty, err
	}

	objectKey := path.Join(directory, fileName)

	_, err = svc.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String(imageCacheControl),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload image to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.publicURL(objectKey), nil
}

func (svc *s3Impl) DeleteFile(ctx context.Context, bucketName, directory, objectName string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if bucketName == constant.Empty {
		bucketName = svc.Config.External.S3.BucketName
	}

	scope.SetAttributes(map[string]any{
		otelAttrFileName:  objectName,
		otelAttrBucket:    bucketName,
		otelAttrDirectory: directory,
	})

	objectKey := path.Join(directory, objectName)

	_, err = svc.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// GetObjectNameFromURL returns the file name of an image this bucket serves, or empty for foreign URLs.
// Both the public domain form and the path style API form are recognised.
func (svc *s3Impl) GetObjectNameFromURL(bucketName, url string) (objectName string) {
	if bucketName == constant.Empty {
		bucketName = svc.Config.External.S3.BucketName
	}

	prefixes := []string{
		strings.TrimSuffix(svc.Config.External.S3.PublicDomain, "/") + "/",
		strings.TrimSuffix(svc.Config.External.S3.APIEndpoint, "/") + "/" + bucketName + "/",
	}

	for _, prefix := range prefixes {
		if prefix == "/" {
			continue
		}

		if key, ok := strings.CutPrefix(url, prefix); ok && key != constant.Empty {
			return path.Base(key)
		}
	}

	return constant.Empty
}

func (svc *s3Impl) publicURL(objectKey string) string {
	return strings.TrimSuffix(svc.Config.External.S3.PublicDomain, "/") + "/" + objectKey
}

func (svc *s3Impl) maxImageBytes() int64 {
	return svc.Config.External.S3.MaxImageSizeKB * bytesPerKB
}

// readLimited reads at most limit bytes and rejects larger uploads. A non positive limit disables the cap.
func readLimited(file io.Reader, limit int64) ([]byte, error) {
	if file == nil {
		return nil, failure.BadRequestFromString("image file is required")
	}

	reader := file
	if limit > 0 {
		reader = io.LimitReader(file, limit+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if limit > 0 && int64(len(data)) > limit {
		return nil, failure.BadRequestFromString(fmt.Sprintf("image must not exceed %d KB", limit/bytesPerKB))
	}

	if len(data) == 0 {
		return nil, failure.BadRequestFromString("image file is empty")
	}

	return data, nil
}

// imageContentType prefers the declared type and falls back to sniffing the payload.
func imageContentType(declared string, data []byte) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))

	if _, ok := allowedImageTypes[contentType]; !ok {
		contentType = http.DetectContentType(data)
	}

	if _, ok := allowedImageTypes[contentType]; !ok {
		return constant.Empty, failure.BadRequestFromString("image must be a jpeg, png, webp or gif file")
	}

	return contentType, nil
}

func New(config *config.Config, otel otel.Otel) S3 {
	s3Cfg := config.External.S3

	staticProvider := credentials.NewStaticCredentialsProvider(
		s3Cfg.AccessKeyID,
		s3Cfg.SecretAccessKey,
		constant.Empty,
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(s3Cfg.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("error loading AWS configuration")
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s3Cfg.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(s3Cfg.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &s3Impl{
		Client: s3Client,
		Config: config,
		otel:   otel,
	}
}

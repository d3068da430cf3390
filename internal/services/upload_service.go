package services

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const avatarTransformation = "c_fill,h_250,w_250"

// Uploader stores an avatar image and returns its public URL.
type Uploader interface {
	UploadAvatar(ctx context.Context, file io.Reader, username string) (string, error)
}

// CloudinaryUploader keeps one avatar per user at <folder>/<username>,
// overwriting on every upload.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) UploadAvatar(ctx context.Context, file io.Reader, username string) (string, error) {
	publicID := u.publicID(username)

	if _, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:  publicID,
		Overwrite: api.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("cloudinary upload %s: %w", publicID, err)
	}

	img, err := u.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("cloudinary asset %s: %w", publicID, err)
	}
	img.Transformation = avatarTransformation
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("cloudinary url %s: %w", publicID, err)
	}
	return url, nil
}

func (u *CloudinaryUploader) publicID(username string) string {
	if u.folder == "" {
		return username
	}
	return u.folder + "/" + username
}

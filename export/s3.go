package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/utils"
)

var contentTypes = map[string]string{
	".json": "application/json",
	".csv":  "text/csv",
}

// Uploader copies written artifacts to an S3 bucket under Prefix.
type Uploader struct {
	Client utils.ObjectPutter
	Bucket string
	Prefix string
}

// Upload sends the file at localPath and returns its object key.
func (u *Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := path.Join(u.Prefix, filepath.Base(localPath))
	contentType := contentTypes[filepath.Ext(localPath)]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key, err = utils.UploadFileToS3(ctx, u.Client, u.Bucket, f, key, contentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", localPath, err)
	}
	slog.Info("artifact uploaded", "bucket", u.Bucket, "key", key)
	return key, nil
}

// UploadingWriter writes through Writer and then uploads the written file.
type UploadingWriter struct {
	Writer   Writer
	Uploader *Uploader
}

func (w UploadingWriter) Write(ctx context.Context, recs []models.ProductRecord, destination string) error {
	if err := w.Writer.Write(ctx, recs, destination); err != nil {
		return err
	}
	_, err := w.Uploader.Upload(ctx, destination)
	return err
}

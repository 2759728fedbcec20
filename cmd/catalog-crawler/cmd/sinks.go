package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raushankrgupta/catalog-crawler/export"
	"github.com/raushankrgupta/catalog-crawler/notify"
	"github.com/raushankrgupta/catalog-crawler/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

// sinks are the optional destinations enabled by configuration.
type sinks struct {
	uploader *export.Uploader
	mongo    *mongo.Client
	records  *export.MongoWriter
	mailer   *notify.Mailer
}

func openSinks(ctx context.Context) (*sinks, error) {
	s := &sinks{}

	if cfg.S3.Bucket != "" {
		client, err := utils.NewS3Client(ctx, cfg.S3.Region)
		if err != nil {
			return nil, err
		}
		s.uploader = &export.Uploader{Client: client, Bucket: cfg.S3.Bucket, Prefix: cfg.S3.Prefix}
	}

	if cfg.Mongo.URI != "" {
		client, err := utils.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		s.mongo = client
		s.records = export.NewMongoWriter(client.Database(cfg.Mongo.Database))
	}

	if cfg.Notify.SendGridAPIKey != "" {
		mailer, err := notify.NewMailer(cfg.Notify.SendGridAPIKey, cfg.Notify.From, cfg.Notify.To)
		if err != nil {
			s.close(ctx)
			return nil, err
		}
		s.mailer = mailer
	}
	return s, nil
}

func (s *sinks) close(ctx context.Context) {
	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			slog.Warn("disconnecting from mongodb", "error", err)
		}
	}
}

// files wraps a file writer so written files are also uploaded when S3 is
// configured.
func (s *sinks) files(w export.Writer) export.Writer {
	if s.uploader == nil {
		return w
	}
	return export.UploadingWriter{Writer: w, Uploader: s.uploader}
}

func (s *sinks) upload(ctx context.Context, path string) error {
	if s.uploader == nil {
		return nil
	}
	_, err := s.uploader.Upload(ctx, path)
	return err
}

func (s *sinks) report(command string, rows []notify.SiteSummary) {
	if s.mailer == nil {
		return
	}
	subject := fmt.Sprintf("catalog-crawler %s: %d site(s)", command, len(rows))
	if err := s.mailer.SendSummary(subject, rows); err != nil {
		slog.Error("sending run summary", "error", err)
	}
}

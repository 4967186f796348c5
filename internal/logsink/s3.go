package logsink

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	commons3 "github.com/xxxsen/common/s3"

	"github.com/sudhakarkatam/foliochat/internal/model"
)

type s3Config struct {
	Endpoint  string `json:"endpoint"`
	SecretID  string `json:"secret_id"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Prefix    string `json:"prefix"`
	UseSSL    bool   `json:"use_ssl"`
}

// s3Sink writes one JSON object per chat turn.
type s3Sink struct {
	client *commons3.S3Client
	prefix string
}

func init() {
	Register("s3", createS3Sink)
}

func createS3Sink(args interface{}, deps Deps) (Sink, error) {
	cfg := &s3Config{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" || cfg.Bucket == "" || cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("s3 sink endpoint/bucket/secret_id/secret_key are required")
	}
	if cfg.Region == "" {
		cfg.Region = "cn"
	}
	client, err := commons3.New(
		commons3.WithEndpoint(cfg.Endpoint),
		commons3.WithSecret(cfg.SecretID, cfg.SecretKey),
		commons3.WithBucket(cfg.Bucket),
		commons3.WithRegion(cfg.Region),
		commons3.WithSSL(cfg.UseSSL),
	)
	if err != nil {
		return nil, err
	}
	return &s3Sink{client: client, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

func (s *s3Sink) Write(ctx context.Context, entry *model.ChatLog) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("chatlog/%d-%s.json", entry.Ctime, randomSuffix())
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}
	_, err = s.client.Upload(ctx, key, bytes.NewReader(data), int64(len(data)))
	return err
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(buf)
}

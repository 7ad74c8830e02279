// Package objectstore persists tournaments to an S3 compatible bucket such as
// Cloudflare R2. Each tournament partition is one JSON object written with a
// conditional put, so a batch either lands whole or not at all.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// API is the part of the S3 client the store uses.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

type Config struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint overrides the AWS endpoint, for R2 or a local S3 emulator.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type Store struct {
	api    API
	bucket string
	prefix string
	region string
}

// New builds an S3 client from the default credential chain, or from static keys when
// both are set.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("object store bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	sdkCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config for object store: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithAPI(client, cfg), nil
}

func NewWithAPI(api API, cfg Config) *Store {
	return &Store{api: api, bucket: cfg.Bucket, prefix: cfg.Prefix, region: cfg.Region}
}

// EnsureBucket creates the bucket when it does not exist and waits for it.
func (s *Store) EnsureBucket(ctx context.Context) error {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var missing *types.NotFound
	if !errors.As(err, &missing) {
		return classify("head bucket", err)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	if s.region != "" && s.region != "auto" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.api.CreateBucket(ctx, input); err != nil {
		return classify("create bucket", err)
	}

	if err := s3.NewBucketExistsWaiter(s.api).Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}, time.Minute); err != nil {
		return classify("wait for bucket", err)
	}
	slog.Info("object store bucket created", "bucket", s.bucket)
	return nil
}

func (s *Store) GetTournament(ctx context.Context, tournamentID string) (*game.Tournament, error) {
	snap, _, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return &snap.Tournament, nil
}

func (s *Store) PutEntities(ctx context.Context, tournamentID string, batch store.Batch) error {
	if err := batch.Check(tournamentID); err != nil {
		return err
	}

	var (
		cur  *store.Snapshot
		etag string
	)
	if batch.Tournament.Version > 1 {
		var err error
		cur, etag, err = s.load(ctx, tournamentID)
		if err != nil {
			return err
		}
	}
	var stored *game.Tournament
	if cur != nil {
		stored = &cur.Tournament
	}
	if err := store.CheckVersion(tournamentID, stored, batch.Tournament.Version); err != nil {
		return err
	}

	body, err := json.Marshal(cur.Apply(batch))
	if err != nil {
		return apperr.Wrap(apperr.CodeInvalidArgument, "encode tournament snapshot", err)
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(tournamentID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}
	if cur == nil {
		input.IfNoneMatch = aws.String("*")
	} else {
		input.IfMatch = aws.String(etag)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		return classify("put tournament snapshot", err)
	}
	return nil
}

func (s *Store) QueryMatches(ctx context.Context, tournamentID string, round *int) ([]game.Match, error) {
	snap, _, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return snap.MatchesIn(round), nil
}

func (s *Store) QueryPlayers(ctx context.Context, tournamentID string) ([]game.Player, error) {
	snap, _, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return snap.OrderedPlayers(), nil
}

func (s *Store) QueryRounds(ctx context.Context, tournamentID string) ([]game.Round, error) {
	snap, _, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return snap.OrderedRounds(), nil
}

func (s *Store) key(tournamentID string) string {
	return s.prefix + "tournaments/" + tournamentID + ".json"
}

func (s *Store) load(ctx context.Context, tournamentID string) (*store.Snapshot, string, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(tournamentID)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, "", apperr.Newf(apperr.CodeNotFound, "tournament %s not found", tournamentID)
		}
		return nil, "", classify("get tournament snapshot", err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", classify("read tournament snapshot", err)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, "", apperr.Wrap(apperr.CodeStorageUnavailable, "decode tournament snapshot "+tournamentID, err)
	}
	return &snap, aws.ToString(out.ETag), nil
}

// classify maps S3 errors onto the storage error kinds. A failed precondition means
// another writer replaced the snapshot first.
func classify(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.ErrorCode(); {
		case code == "PreconditionFailed" || code == "ConditionalRequestConflict":
			return apperr.Wrap(apperr.CodeStorageConflict, op+" lost a concurrent write", err)
		case strings.Contains(code, "Throttl") || code == "SlowDown":
			return apperr.Wrap(apperr.CodeStorageUnavailable, op+" was throttled", err)
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusPreconditionFailed, http.StatusConflict:
			return apperr.Wrap(apperr.CodeStorageConflict, op+" lost a concurrent write", err)
		}
	}
	return apperr.FromStorage(op, err)
}

package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/store"
	"github.com/AdamBeresnev/courtkeeper/internal/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	body []byte
	etag string
}

// fakeS3 is an in-memory bucket that honours If-Match and If-None-Match.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]object
	buckets map[string]bool
	seq     int
	failPut error
	// beforePut runs after the precondition inputs are built but before they are checked.
	beforePut func()
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]object{}, buckets: map[string]bool{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(obj.body)),
		ETag: aws.String(obj.etag),
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.beforePut != nil {
		hook := f.beforePut
		f.beforePut = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return nil, f.failPut
	}

	key := aws.ToString(in.Key)
	cur, exists := f.objects[key]
	if in.IfNoneMatch != nil && exists {
		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "object exists"}
	}
	if in.IfMatch != nil && (!exists || cur.etag != aws.ToString(in.IfMatch)) {
		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "etag mismatch"}
	}

	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.seq++
	etag := fmt.Sprintf("\"etag-%d\"", f.seq)
	f.objects[key] = object{body: body, etag: etag}
	return &s3.PutObjectOutput{ETag: aws.String(etag)}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.buckets[aws.ToString(in.Bucket)] {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[aws.ToString(in.Bucket)] = true
	return &s3.CreateBucketOutput{}, nil
}

func setupStore(t *testing.T) (*Store, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	return NewWithAPI(fake, Config{Bucket: "courts", Prefix: "test/"}), fake
}

func tournament(version int) game.Tournament {
	return game.Tournament{
		ID:          "t1",
		Name:        "Club Night",
		CourtCount:  1,
		TeamSize:    game.Singles,
		PairingMode: game.PairingBalanced,
		Status:      game.TournamentSetup,
		Version:     version,
		CreatedAt:   time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestObjectStore_RoundTrip(t *testing.T) {
	s, fake := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(1)}))
	assert.Contains(t, fake.objects, "test/tournaments/t1.json")

	created := time.Date(2026, 3, 1, 18, 5, 0, 0, time.UTC)
	next := tournament(2)
	next.Status = game.TournamentActive
	next.RoundNumber = 1
	require.NoError(t, s.PutEntities(ctx, "t1", store.Batch{
		Tournament: next,
		Players: []game.Player{
			{ID: "p2", TournamentID: "t1", Name: "Bea", SkillLevel: 3, Active: true, CreatedAt: created.Add(time.Second)},
			{ID: "p1", TournamentID: "t1", Name: "Ann", SkillLevel: 4, Active: true, CreatedAt: created},
		},
		Matches: []game.Match{{
			ID: "m1", TournamentID: "t1", RoundNumber: 1, CourtNumber: 1,
			SideA: game.PlayerIDs{"p1"}, SideB: game.PlayerIDs{"p2"},
			Status: game.MatchCompleted, ScoreA: utils.Ptr(11), ScoreB: utils.Ptr(7),
		}},
		Rounds: []game.Round{{TournamentID: "t1", Number: 1, PairingMode: game.PairingBalanced, Seed: 7}},
	}))

	got, err := s.GetTournament(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, game.TournamentActive, got.Status)

	players, err := s.QueryPlayers(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "p1", players[0].ID)

	matches, err := s.QueryMatches(ctx, "t1", utils.Ptr(1))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 11, *matches[0].ScoreA)

	rounds, err := s.QueryRounds(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, int64(7), rounds[0].Seed)
}

func TestObjectStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing tournament", func(t *testing.T) {
		s, _ := setupStore(t)
		_, err := s.GetTournament(ctx, "t1")
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		err = s.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(2)})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("create twice", func(t *testing.T) {
		s, _ := setupStore(t)
		require.NoError(t, s.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(1)}))
		err := s.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(1)})
		assert.ErrorIs(t, err, apperr.ErrStorageConflict)
	})

	t.Run("stale version", func(t *testing.T) {
		s, _ := setupStore(t)
		require.NoError(t, s.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(1)}))
		err := s.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(3)})
		assert.ErrorIs(t, err, apperr.ErrStorageConflict)
	})

	t.Run("concurrent writer wins the etag race", func(t *testing.T) {
		s, fake := setupStore(t)
		require.NoError(t, s.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(1)}))

		other := NewWithAPI(fake, Config{Bucket: "courts", Prefix: "test/"})
		fake.beforePut = func() {
			require.NoError(t, other.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(2)}))
		}
		err := s.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(2)})
		assert.ErrorIs(t, err, apperr.ErrStorageConflict)
	})

	t.Run("throttled", func(t *testing.T) {
		s, fake := setupStore(t)
		fake.failPut = &smithy.GenericAPIError{Code: "SlowDown", Message: "reduce your request rate"}
		err := s.PutEntities(ctx, "t1", store.Batch{Tournament: tournament(1)})
		assert.ErrorIs(t, err, apperr.ErrStorageUnavailable)
		assert.True(t, apperr.Retryable(err))
	})

	t.Run("cross partition batch", func(t *testing.T) {
		s, _ := setupStore(t)
		err := s.PutEntities(ctx, "t2", store.Batch{Tournament: tournament(1)})
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	})
}

func TestEnsureBucket(t *testing.T) {
	s, fake := setupStore(t)
	require.NoError(t, s.EnsureBucket(context.Background()))
	assert.True(t, fake.buckets["courts"])

	// Second call finds the bucket and does nothing.
	require.NoError(t, s.EnsureBucket(context.Background()))
}

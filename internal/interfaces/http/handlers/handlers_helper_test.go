package handlers

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stagepass.backend/internal/domain/entities"
	"stagepass.backend/internal/infrastructure/gateway"
	"stagepass.backend/internal/infrastructure/repositories"
	"stagepass.backend/internal/interfaces/http/middleware"
	"stagepass.backend/internal/usecases"
	"stagepass.backend/pkg/crypto"
	"stagepass.backend/pkg/jwt"
	"stagepass.backend/pkg/logger"
)

func init() {
	logger.Init("development")
	gin.SetMode(gin.TestMode)
}

// gatewayStub lets each test script the processor's answers
type gatewayStub struct {
	initializeFn func(ctx context.Context, email, reference string, amountKobo int64) (*gateway.InitializeResult, error)
	verifyFn     func(ctx context.Context, reference string) (*gateway.VerifyResult, error)
}

func (g *gatewayStub) Initialize(ctx context.Context, email, reference string, amountKobo int64) (*gateway.InitializeResult, error) {
	if g.initializeFn != nil {
		return g.initializeFn(ctx, email, reference, amountKobo)
	}
	return &gateway.InitializeResult{Reference: reference, AccessCode: "AC_test"}, nil
}

func (g *gatewayStub) Verify(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
	if g.verifyFn != nil {
		return g.verifyFn(ctx, reference)
	}
	return &gateway.VerifyResult{Success: true, GatewayStatus: "success"}, nil
}

// memBlobStore keeps uploads in memory
type memBlobStore struct {
	blobs map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}}
}

func (s *memBlobStore) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.blobs[key] = data
	return key, nil
}

func (s *memBlobStore) Delete(_ context.Context, blobID string) error {
	delete(s.blobs, blobID)
	return nil
}

type testEnv struct {
	db          *gorm.DB
	gateway     *gatewayStub
	blobs       *memBlobStore
	jwtSvc      *jwt.JWTService
	auth        *usecases.AuthUsecase
	eligibility *usecases.EligibilityUsecase
	contests    *usecases.ContestUsecase
	submissions *usecases.SubmissionUsecase
	entryRepo   *repositories.EntryRepository
	userRepo    *repositories.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")

	for _, q := range []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'PARTICIPANT',
			bank_name TEXT,
			bank_account_number TEXT,
			bank_account_name TEXT,
			is_promoted BOOLEAN NOT NULL DEFAULT 0,
			current_stage TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
		`CREATE TABLE contests (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			entry_fee_kobo INTEGER NOT NULL DEFAULT 0,
			first_prize_kobo INTEGER NOT NULL DEFAULT 0,
			second_prize_kobo INTEGER NOT NULL DEFAULT 0,
			third_prize_kobo INTEGER NOT NULL DEFAULT 0,
			stage TEXT NOT NULL DEFAULT 'submission',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			category TEXT,
			max_contestants INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
		`CREATE TABLE entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			contest_id TEXT NOT NULL,
			fee_kobo INTEGER NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'unpaid',
			payment_reference TEXT UNIQUE,
			is_free BOOLEAN NOT NULL DEFAULT 0,
			winner_position INTEGER,
			is_promoted_forward BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE(user_id, contest_id)
		);`,
		`CREATE TABLE submissions (
			id TEXT PRIMARY KEY,
			entry_id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			contest_id TEXT NOT NULL,
			blob_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
	} {
		require.NoError(t, db.Exec(q).Error, "create schema")
	}

	userRepo := repositories.NewUserRepository(db)
	contestRepo := repositories.NewContestRepository(db)
	entryRepo := repositories.NewEntryRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	gw := &gatewayStub{}
	blobs := newMemBlobStore()
	jwtSvc := jwt.NewJWTService("handler-test-secret", 15*time.Minute, 24*time.Hour)

	return &testEnv{
		db:          db,
		gateway:     gw,
		blobs:       blobs,
		jwtSvc:      jwtSvc,
		auth:        usecases.NewAuthUsecase(userRepo, jwtSvc),
		eligibility: usecases.NewEligibilityUsecase(userRepo, contestRepo, entryRepo, gw, uow),
		contests:    usecases.NewContestUsecase(contestRepo, entryRepo, submissionRepo, userRepo, blobs, uow),
		submissions: usecases.NewSubmissionUsecase(entryRepo, submissionRepo, userRepo, blobs),
		entryRepo:   entryRepo,
		userRepo:    userRepo,
	}
}

// asUser stands in for the JWT middleware and attaches a fixed identity
func asUser(user *entities.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		c.Set(middleware.UserEmailKey, user.Email)
		c.Set(middleware.UserRoleKey, string(user.Role))
		c.Next()
	}
}

func (e *testEnv) seedUser(t *testing.T, email string, role entities.UserRole) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword("password123")
	require.NoError(t, err)
	user := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedContest(t *testing.T, feeKobo int64, active bool) *entities.Contest {
	t.Helper()
	contest := &entities.Contest{
		ID:           uuid.New(),
		Name:         "Open Mic",
		EntryFeeKobo: feeKobo,
		Stage:        "submission",
		IsActive:     active,
	}
	require.NoError(t, repositories.NewContestRepository(e.db).Create(context.Background(), contest))
	return contest
}

func (e *testEnv) seedEntry(t *testing.T, user *entities.User, contest *entities.Contest, status entities.PaymentStatus, reference string) *entities.Entry {
	t.Helper()
	entry := &entities.Entry{
		ID:        uuid.New(),
		UserID:    user.ID,
		ContestID: contest.ID,
		FeeKobo:   contest.EntryFeeKobo,
	}
	var ref interface{}
	if reference != "" {
		ref = reference
	}
	require.NoError(t, e.db.Exec(
		`INSERT INTO entries (id, user_id, contest_id, fee_kobo, payment_status, payment_reference, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(), user.ID.String(), contest.ID.String(), entry.FeeKobo,
		string(status), ref, time.Now(), time.Now(),
	).Error)
	entry.PaymentStatus = status
	entry.PaymentReference = reference
	return entry
}

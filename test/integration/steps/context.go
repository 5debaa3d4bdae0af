// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/config"
	"github.com/checks-dashboard/backend/internal/infra/dependency"
	"github.com/checks-dashboard/backend/internal/integration/adapters"
	"github.com/checks-dashboard/backend/internal/integration/email"
	"github.com/checks-dashboard/backend/internal/integration/persistence"
	"github.com/checks-dashboard/backend/internal/integration/queue"
	"github.com/checks-dashboard/backend/test/integration/mock"
)

const (
	testJWTSecret   = "integration-test-secret"
	testKeyPrefix   = "test"
	testAppBaseURL  = "https://checks.example.com"
	resendEmailPath = "/emails"
)

var (
	apiMock *mock.ApiMock
	dbMock  *mock.Db
	rdMock  *mock.Redis
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string

	// Auth
	accessToken string
	ownerID     uuid.UUID

	// Captured ids, substituted for {{check_id}} and {{removed_id}}
	checkID   string
	removedID string

	// Wiring
	cfg      *config.Config
	clock    *mock.Time
	injector *dependency.Injector
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		dbMock = mock.NewDb()
		rdMock = mock.NewRedis()
		apiMock = mock.NewApiServer()
		apiMock.Start()
	})

	ctx.AfterSuite(func() {
		apiMock.Close()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		if err := dbMock.ClearDB(); err != nil {
			return ctx, err
		}
		if err := rdMock.Clear(); err != nil {
			return ctx, err
		}
		apiMock.Reset()
		apiMock.SetResponse(http.MethodPost, resendEmailPath, http.StatusOK, map[string]any{"id": "re_mock"})

		tc, err := newTestContext()
		if err != nil {
			return ctx, err
		}
		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerCheckSteps(ctx)
	registerReminderSteps(ctx)
}

func newTestContext() (*TestContext, error) {
	cfg := testConfig()
	clock := mock.NewTime()

	mailer, err := email.NewResendClient("re_test_key", cfg.Email.FromName, cfg.Email.FromEmail, apiMock.GetUrl())
	if err != nil {
		return nil, fmt.Errorf("failed to create resend client: %w", err)
	}

	notifier := queue.NewChangeNotifier(rdMock.Client, cfg.Redis.KeyPrefix)
	injector, err := dependency.NewInjector(cfg, dependency.Components{
		CheckRepository: persistence.NewCheckRepository(dbMock.DbConn, notifier),
		Redis:           rdMock.Client,
		TokenService:    adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry),
		Mailer:          mailer,
		Clock:           clock,
		StoreHealth:     func() bool { return true },
	})
	if err != nil {
		return nil, err
	}

	return &TestContext{
		server:         httptest.NewServer(injector.Router.Setup(cfg.Server.Environment)),
		requestHeaders: make(map[string]string),
		cfg:            cfg,
		clock:          clock,
		injector:       injector,
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Redis:  config.RedisConfig{KeyPrefix: testKeyPrefix},
		JWT: config.JWTConfig{
			Provider:          config.AuthProviderJWT,
			Secret:            testJWTSecret,
			AccessTokenExpiry: time.Hour,
		},
		Email: config.EmailConfig{
			FromName:   "Checks Dashboard",
			FromEmail:  "reminders@checks.example.com",
			AppBaseURL: testAppBaseURL,
		},
		Reminder: config.ReminderConfig{
			PollInterval: time.Minute,
			BatchSize:    50,
			Timezone:     "UTC",
		},
	}
}

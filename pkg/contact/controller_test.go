package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/telekom/contact-intake/pkg/audit"
	"github.com/telekom/contact-intake/pkg/config"
	"github.com/telekom/contact-intake/pkg/ratelimit"
)

// fakeRepository implements Repository in memory.
type fakeRepository struct {
	mu        sync.Mutex
	subs      []Submission
	createErr error
}

func (f *fakeRepository) Create(_ context.Context, s *Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = uint(len(f.subs) + 1)
	f.subs = append(f.subs, *s)
	return nil
}

func (f *fakeRepository) GetByReference(_ context.Context, reference string) (*Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.subs {
		if f.subs[i].Reference == reference {
			s := f.subs[i]
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) List(_ context.Context, opts ListOptions) ([]Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Submission, len(f.subs))
	copy(out, f.subs)
	return out, nil
}

func (f *fakeRepository) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.subs)), nil
}

func (f *fakeRepository) all() []Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Submission, len(f.subs))
	copy(out, f.subs)
	return out
}

// fakeNotifier records enqueued notifications.
type fakeNotifier struct {
	mu         sync.Mutex
	enqueueErr error
	calls      []notifierCall
}

type notifierCall struct {
	reference string
	receivers []string
	subject   string
	body      string
}

func (f *fakeNotifier) Enqueue(reference string, receivers []string, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.calls = append(f.calls, notifierCall{reference, receivers, subject, body})
	return nil
}

func (f *fakeNotifier) all() []notifierCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notifierCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeAuditor records emitted events.
type fakeAuditor struct {
	mu     sync.Mutex
	events []*audit.Event
}

func (f *fakeAuditor) Emit(event *audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeAuditor) types() []audit.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]audit.EventType, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	engine   *gin.Engine
	repo     *fakeRepository
	notifier *fakeNotifier
	auditor  *fakeAuditor
}

func testContactConfig() config.Contact {
	return config.Contact{
		RecipientAddress: "inbox@example.com",
		SubjectPrefix:    "[Contact]",
		BrandingName:     "Example Corp",
		MaxMessageLength: 5000,
		AdminToken:       "admin-secret",
	}
}

func newTestEnv(t *testing.T, cfg config.Contact) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		repo:     &fakeRepository{},
		notifier: &fakeNotifier{},
		auditor:  &fakeAuditor{},
	}

	ctrl := NewController(zaptest.NewLogger(t).Sugar(), cfg, env.repo, env.notifier, env.auditor)
	env.engine = gin.New()
	group := env.engine.Group(ctrl.BasePath(), ctrl.Handlers()...)
	require.NoError(t, ctrl.Register(group))
	return env
}

func postForm(engine *gin.Engine, values url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	engine.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersForm(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Example Corp")
	assert.Contains(t, body, `name="email"`)
	assert.Contains(t, body, `name="message"`)
	assert.NotContains(t, body, "your message has been sent")

	// Rendering the form has no side effects
	assert.Empty(t, env.repo.all())
	assert.Empty(t, env.notifier.all())
}

func TestIndexShowsConfirmationAfterRedirect(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact?sent=1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "your message has been sent")
}

func TestSubmitStoresNotifiesAndRedirects(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	rec := postForm(env.engine, url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"hello"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contact?sent=1", rec.Header().Get("Location"))

	subs := env.repo.all()
	require.Len(t, subs, 1)
	assert.Equal(t, "Ada", subs[0].Name)
	assert.Equal(t, "ada@example.com", subs[0].Email)
	assert.Equal(t, "hello", subs[0].Message)
	assert.NotEmpty(t, subs[0].Reference)

	calls := env.notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, subs[0].Reference, calls[0].reference)
	assert.Equal(t, []string{"inbox@example.com"}, calls[0].receivers)
	assert.Contains(t, calls[0].subject, "[Contact]")
	assert.Contains(t, calls[0].subject, "Ada")
	assert.Contains(t, calls[0].body, "Ada")
	assert.Contains(t, calls[0].body, "ada@example.com")
	assert.Contains(t, calls[0].body, "hello")

	assert.Equal(t, []audit.EventType{
		audit.EventSubmissionReceived,
		audit.EventSubmissionStored,
		audit.EventNotificationQueued,
	}, env.auditor.types())
}

func TestSubmitAcceptsJSON(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	payload, err := json.Marshal(map[string]string{
		"name":    "Grace",
		"email":   "grace@example.com",
		"message": "structured hello",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	env.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	subs := env.repo.all()
	require.Len(t, subs, 1)
	assert.Equal(t, "Grace", subs[0].Name)
}

func TestSubmitEmptyBodyRejected(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	rec := postForm(env.engine, url.Values{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.repo.all())
	assert.Empty(t, env.notifier.all())

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "name")
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "message")

	assert.Equal(t, []audit.EventType{
		audit.EventSubmissionReceived,
		audit.EventSubmissionRejected,
	}, env.auditor.types())
}

func TestSubmitInvalidEmailRejected(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	rec := postForm(env.engine, url.Values{
		"name":    {"Ada"},
		"email":   {"not-an-email"},
		"message": {"hello"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "must be a valid email address", resp.Fields["email"])
	assert.Empty(t, env.repo.all())
}

func TestSubmitMessageOverConfiguredLimitRejected(t *testing.T) {
	cfg := testContactConfig()
	cfg.MaxMessageLength = 10
	env := newTestEnv(t, cfg)

	rec := postForm(env.engine, url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"this message is longer than ten characters"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.repo.all())
	assert.Empty(t, env.notifier.all())
}

func TestSubmitIgnoresUnexpectedFields(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	rec := postForm(env.engine, url.Values{
		"name":      {"Ada"},
		"email":     {"ada@example.com"},
		"message":   {"hello"},
		"recipient": {"attacker@evil.example"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)

	// The notification still goes to the configured recipient only
	calls := env.notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"inbox@example.com"}, calls[0].receivers)
}

func TestSubmitStoreFailureReturns500AndSkipsMail(t *testing.T) {
	env := newTestEnv(t, testContactConfig())
	env.repo.createErr = errors.New("database unavailable")

	rec := postForm(env.engine, url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"hello"},
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, env.notifier.all())
}

func TestSubmitNotifierFailureStillRedirects(t *testing.T) {
	env := newTestEnv(t, testContactConfig())
	env.notifier.enqueueErr = errors.New("queue full")

	rec := postForm(env.engine, url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"hello"},
	})

	// The row is durable; notification failure is not surfaced to the submitter
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, env.repo.all(), 1)
}

func adminRequest(engine *gin.Engine, path, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAdminListRequiresToken(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	assert.Equal(t, http.StatusUnauthorized, adminRequest(env.engine, "/contact/submissions", "").Code)
	assert.Equal(t, http.StatusUnauthorized, adminRequest(env.engine, "/contact/submissions", "wrong").Code)
}

func TestAdminListAndGet(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	postForm(env.engine, url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"hello"},
	})
	reference := env.repo.all()[0].Reference

	listRec := adminRequest(env.engine, "/contact/submissions", "admin-secret")
	require.Equal(t, http.StatusOK, listRec.Code)

	var list SubmissionListResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Submissions, 1)
	assert.Equal(t, reference, list.Submissions[0].Reference)

	getRec := adminRequest(env.engine, "/contact/submissions/"+reference, "admin-secret")
	require.Equal(t, http.StatusOK, getRec.Code)

	var got Submission
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &got))
	assert.Equal(t, "Ada", got.Name)

	missing := adminRequest(env.engine, "/contact/submissions/unknown-ref", "admin-secret")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestAdminRoutesAbsentWithoutToken(t *testing.T) {
	cfg := testContactConfig()
	cfg.AdminToken = ""
	env := newTestEnv(t, cfg)

	rec := adminRequest(env.engine, "/contact/submissions", "anything")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminListClampsPaging(t *testing.T) {
	env := newTestEnv(t, testContactConfig())

	rec := adminRequest(env.engine, "/contact/submissions?limit=500&offset=-3", "admin-secret")
	require.Equal(t, http.StatusOK, rec.Code)

	var list SubmissionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 50, list.Limit)
	assert.Equal(t, 0, list.Offset)
}

func TestSubmitRateLimitAppliesToPostOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.New(ratelimit.Config{Rate: 0.0001, Burst: 2})
	defer limiter.Stop()

	env := &testEnv{
		repo:     &fakeRepository{},
		notifier: &fakeNotifier{},
		auditor:  &fakeAuditor{},
	}
	ctrl := NewController(zaptest.NewLogger(t).Sugar(), testContactConfig(), env.repo, env.notifier, env.auditor).
		WithSubmitLimit(limiter.Middleware())
	env.engine = gin.New()
	require.NoError(t, ctrl.Register(env.engine.Group(ctrl.BasePath(), ctrl.Handlers()...)))

	form := url.Values{"name": {"Alice"}, "email": {"alice@example.com"}, "message": {"hello"}}
	assert.Equal(t, http.StatusSeeOther, postForm(env.engine, form).Code)
	assert.Equal(t, http.StatusSeeOther, postForm(env.engine, form).Code)
	assert.Equal(t, http.StatusTooManyRequests, postForm(env.engine, form).Code)

	// Form rendering from the same IP is never throttled
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		env.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact?sent=1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// Neither is the admin listing
	rec := adminRequest(env.engine, "/contact/submissions", "admin-secret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

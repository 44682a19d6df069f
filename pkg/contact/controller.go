// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package contact

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telekom/contact-intake/pkg/apiresponses"
	"github.com/telekom/contact-intake/pkg/audit"
	"github.com/telekom/contact-intake/pkg/config"
	"github.com/telekom/contact-intake/pkg/mail"
	"github.com/telekom/contact-intake/pkg/metrics"
	"github.com/telekom/contact-intake/pkg/system"
)

// Notifier is the slice of the mail queue the controller needs.
type Notifier interface {
	Enqueue(reference string, receivers []string, subject, body string) error
}

// AuditEmitter records submission lifecycle events.
type AuditEmitter interface {
	Emit(event *audit.Event)
}

// Controller serves the public contact form and the admin submission API.
// All collaborators are injected; the controller holds no global state.
type Controller struct {
	log        *zap.SugaredLogger
	cfg        config.Contact
	repo       Repository
	notifier   Notifier
	auditor    AuditEmitter
	middleware []gin.HandlerFunc
	// submitLimit guards only the submission POST. Form rendering and the
	// admin API are side-effect free and stay unthrottled.
	submitLimit gin.HandlerFunc
	// hasStylesheet toggles the stylesheet link on the form page when
	// static assets are served.
	hasStylesheet bool
}

// NewController creates the contact controller. The middleware arguments are
// applied to every route in the group.
func NewController(log *zap.SugaredLogger, cfg config.Contact, repo Repository, notifier Notifier, auditor AuditEmitter, middleware ...gin.HandlerFunc) *Controller {
	return &Controller{
		log:        log,
		cfg:        cfg,
		repo:       repo,
		notifier:   notifier,
		auditor:    auditor,
		middleware: middleware,
	}
}

// WithSubmitLimit installs a rate limiting middleware on the submission POST
// route only.
func (ct *Controller) WithSubmitLimit(mw gin.HandlerFunc) *Controller {
	ct.submitLimit = mw
	return ct
}

// WithStylesheet enables the stylesheet link on the rendered form page.
func (ct *Controller) WithStylesheet() *Controller {
	ct.hasStylesheet = true
	return ct
}

// BasePath returns the base path for contact routes.
func (ct *Controller) BasePath() string {
	return "contact"
}

// Handlers returns middleware applied to all contact routes.
func (ct *Controller) Handlers() []gin.HandlerFunc {
	return ct.middleware
}

// Register mounts the contact routes. The admin subtree is only mounted
// when an admin token is configured.
func (ct *Controller) Register(rg *gin.RouterGroup) error {
	rg.GET("", instrumentedHandler("index", ct.index))
	if ct.submitLimit != nil {
		rg.POST("", ct.submitLimit, instrumentedHandler("submit", ct.submit))
	} else {
		rg.POST("", instrumentedHandler("submit", ct.submit))
	}

	if ct.cfg.AdminToken != "" {
		admin := rg.Group("submissions", ct.adminAuth())
		admin.GET("", instrumentedHandler("listSubmissions", ct.listSubmissions))
		admin.GET(":reference", instrumentedHandler("getSubmission", ct.getSubmission))
	}
	return nil
}

// index renders the contact form. No side effects.
func (ct *Controller) index(c *gin.Context) {
	page, err := renderFormPage(formPageParams{
		BrandingName:     ct.cfg.BrandingName,
		Action:           c.Request.URL.Path,
		MaxMessageLength: ct.cfg.MaxMessageLength,
		Sent:             c.Query("sent") == "1",
		HasStylesheet:    ct.hasStylesheet,
	})
	if err != nil {
		apiresponses.RespondInternalError(c, "render contact form", err, ct.log)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// submit accepts a contact form post: validate, persist, audit, notify,
// redirect. The insert and the notification are deliberately not wrapped in
// a transaction; the stored row is the source of truth and the email is
// delivered best-effort by the retry queue.
func (ct *Controller) submit(c *gin.Context) {
	metrics.SubmissionsReceived.WithLabelValues("form").Inc()

	actor := audit.Actor{
		SourceIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	ct.auditor.Emit(audit.NewEvent(audit.EventSubmissionReceived, actor, ""))

	var req SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		ct.rejectSubmission(c, actor, err)
		return
	}
	actor.Email = req.Email

	if len(req.Message) > ct.cfg.MaxMessageLength {
		ct.rejectSubmission(c, actor, errors.New("message exceeds the configured length limit"))
		return
	}

	sub := &Submission{
		Reference: uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		SourceIP:  actor.SourceIP,
		UserAgent: actor.UserAgent,
	}

	reqLog := system.GetReqLogger(c, ct.log)
	if err := ct.repo.Create(c.Request.Context(), sub); err != nil {
		metrics.SubmissionsStoreFailed.WithLabelValues("form").Inc()
		apiresponses.RespondInternalError(c, "store contact submission", err, reqLog)
		return
	}
	metrics.SubmissionsStored.WithLabelValues("form").Inc()
	ct.auditor.Emit(audit.NewEvent(audit.EventSubmissionStored, actor, sub.Reference))
	reqLog.Infow("Contact submission stored", system.SubmissionFields(sub.Reference, sub.Email)...)

	ct.notify(sub, actor)

	c.Redirect(http.StatusSeeOther, "/"+ct.BasePath()+"?sent=1")
}

// notify renders the notification body and hands it to the mail queue. A
// queue failure is logged and counted but does not fail the request; the
// submission is already durable.
func (ct *Controller) notify(sub *Submission, actor audit.Actor) {
	body, err := mail.RenderSubmissionNotification(mail.SubmissionNotificationParams{
		Name:         sub.Name,
		Email:        sub.Email,
		Message:      sub.Message,
		Reference:    sub.Reference,
		ReceivedAt:   sub.CreatedAt.Format(time.RFC3339),
		BrandingName: ct.cfg.BrandingName,
	})
	if err != nil {
		ct.log.Errorw("Failed to render submission notification",
			"reference", sub.Reference, "error", err)
		return
	}

	subject := strings.TrimSpace(ct.cfg.SubjectPrefix + " New message from " + sub.Name)
	if err := ct.notifier.Enqueue(sub.Reference, []string{ct.cfg.RecipientAddress}, subject, body); err != nil {
		ct.log.Errorw("Failed to enqueue submission notification",
			"reference", sub.Reference, "error", err)
		return
	}
	ct.auditor.Emit(audit.NewEvent(audit.EventNotificationQueued, actor, sub.Reference).
		WithDetail("recipient", ct.cfg.RecipientAddress))
}

// rejectSubmission answers a 400 with per-field errors and audits the
// rejection. Nothing is persisted or mailed for rejected posts.
func (ct *Controller) rejectSubmission(c *gin.Context, actor audit.Actor, err error) {
	metrics.SubmissionsRejected.WithLabelValues("form", "validation").Inc()
	ct.auditor.Emit(audit.NewEvent(audit.EventSubmissionRejected, actor, "").
		WithDetail("reason", err.Error()))

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
		apiresponses.RespondValidationFailure(c, fields)
		return
	}
	apiresponses.RespondBadRequest(c, err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "invalid value"
	}
}

// adminAuth guards the admin subtree with a constant-time token comparison.
func (ct *Controller) adminAuth() gin.HandlerFunc {
	token := []byte(ct.cfg.AdminToken)
	return func(c *gin.Context) {
		presented := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if presented == "" || subtle.ConstantTimeCompare(token, []byte(presented)) != 1 {
			apiresponses.RespondUnauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SubmissionListResponse is the admin listing payload.
type SubmissionListResponse struct {
	Submissions []Submission `json:"submissions"`
	Total       int64        `json:"total"`
	Limit       int          `json:"limit"`
	Offset      int          `json:"offset"`
}

func (ct *Controller) listSubmissions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	opts := ListOptions{Limit: limit, Offset: offset}.normalized()

	subs, err := ct.repo.List(c.Request.Context(), opts)
	if err != nil {
		apiresponses.RespondInternalError(c, "list contact submissions", err, ct.log)
		return
	}
	total, err := ct.repo.Count(c.Request.Context())
	if err != nil {
		apiresponses.RespondInternalError(c, "count contact submissions", err, ct.log)
		return
	}

	c.JSON(http.StatusOK, SubmissionListResponse{
		Submissions: subs,
		Total:       total,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
	})
}

func (ct *Controller) getSubmission(c *gin.Context) {
	reference := c.Param("reference")
	sub, err := ct.repo.GetByReference(c.Request.Context(), reference)
	if errors.Is(err, ErrNotFound) {
		apiresponses.RespondNotFound(c, "submission", reference)
		return
	}
	if err != nil {
		apiresponses.RespondInternalError(c, "fetch contact submission", err, ct.log)
		return
	}
	c.JSON(http.StatusOK, sub)
}

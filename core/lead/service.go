// Package lead captures early-access requests and delivers them to a webhook,
// keeping a local backup when delivery fails.
package lead

import (
	"context"
	"net/mail"
	"runtime"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/gradespark/core"
)

const notificationTemplate = "lead_captured"

var (
	ErrInvalidLead = errors.New("invalid lead")
	ErrNoBackup    = errors.New("no lead backup configured")
)

func init() {
	core.RegisterEmailTemplate(
		notificationTemplate,
		`New early-access request for {{.Feature}}

Name: {{.Name}}
Email: {{.Email}}
School: {{.School}}
Role: {{.Role}}
Team size: {{.Size}}
Timeline: {{.Timeline}}
Platform: {{.Platform}}
`,
		`<p>New early-access request for <strong>{{.Feature}}</strong></p>
<ul>
<li>Name: {{.Name}}</li>
<li>Email: {{.Email}}</li>
<li>School: {{.School}}</li>
<li>Role: {{.Role}}</li>
<li>Team size: {{.Size}}</li>
<li>Timeline: {{.Timeline}}</li>
<li>Platform: {{.Platform}}</li>
</ul>`,
	)
}

type (
	// Sender delivers a lead to the remote collector.
	Sender interface {
		Send(ctx context.Context, l Lead) error
	}

	// Repository keeps leads that could not be delivered.
	Repository interface {
		Append(l Lead) error
		All() ([]Lead, error)
	}

	Service struct {
		sender     Sender
		repo       Repository
		logger     core.Logger
		mailer     core.EmailService
		salesInbox *mail.Address
		validate   *validator.Validate
		translator ut.Translator
		now        func() time.Time
		wg         sync.WaitGroup
	}

	Option func(*Service)
)

// WithNotifier mails every captured lead to inbox.
func WithNotifier(mailer core.EmailService, inbox mail.Address) Option {
	return func(svc *Service) {
		svc.mailer = mailer
		svc.salesInbox = &inbox
	}
}

func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// NewService returns a lead Service. sender may be nil, in which case every lead goes to repo.
func NewService(sender Sender, repo Repository, logger core.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = core.NopLogger{}
	}
	validate, translator := core.NewValidator()
	RegisterValidators(validate, translator)

	svc := &Service{
		sender:     sender,
		repo:       repo,
		logger:     logger,
		validate:   validate,
		translator: translator,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Validate cleans nl and checks it, returning a *core.ValidationError listing bad fields.
func (svc *Service) Validate(nl *NewLead) error {
	nl.Clean()
	if err := svc.validate.Struct(nl); err != nil {
		if flds, ok := core.TranslateErrors(err, svc.translator); ok {
			return core.NewValidationError(ErrInvalidLead, flds...)
		}
		return err
	}
	return nil
}

// Submit validates nl, stamps it and queues its delivery. It returns as soon as the lead is queued;
// delivery outcome is only logged. Use Wait to block until queued deliveries are done.
func (svc *Service) Submit(ctx context.Context, nl NewLead) (Lead, error) {
	if err := ctx.Err(); err != nil {
		return Lead{}, err
	}
	if err := svc.Validate(&nl); err != nil {
		return Lead{}, err
	}

	l := Lead{
		ID:        uuid.New().String(),
		Name:      nl.Name,
		Email:     nl.Email,
		School:    nl.School,
		Role:      nl.Role,
		Size:      nl.Size,
		Timeline:  nl.Timeline,
		Feature:   nl.Feature,
		Timestamp: svc.now(),
		Platform:  runtime.GOOS,
	}

	svc.wg.Add(1)
	go func() {
		defer svc.wg.Done()
		// the caller's context usually ends with its request; delivery must outlive it
		svc.deliver(context.Background(), l)
	}()
	return l, nil
}

// Wait blocks until every queued delivery and its sales notification have finished.
func (svc *Service) Wait() {
	svc.wg.Wait()
	if svc.mailer != nil {
		svc.mailer.Wait()
	}
}

// Backlog returns the leads kept locally.
func (svc *Service) Backlog() ([]Lead, error) {
	if svc.repo == nil {
		return nil, ErrNoBackup
	}
	return svc.repo.All()
}

func (svc *Service) deliver(ctx context.Context, l Lead) {
	logArgs := map[string]interface{}{"email": l.Email, "feature": l.Feature}

	if svc.sender != nil {
		err := svc.sender.Send(ctx, l)
		if err == nil {
			svc.logger.Info("lead sent", logArgs)
			svc.notify(l)
			return
		}
		svc.logger.Warn("lead webhook failed, saving locally", err, logArgs)
	}

	if svc.repo == nil {
		svc.logger.Error("failed to save lead locally", ErrNoBackup, logArgs)
		return
	}
	if err := svc.repo.Append(l); err != nil {
		svc.logger.Error("failed to save lead locally", err, logArgs)
		return
	}
	svc.logger.Info("lead saved locally", logArgs)
	svc.notify(l)
}

func (svc *Service) notify(l Lead) {
	if svc.mailer == nil || svc.salesInbox == nil || svc.salesInbox.Address == "" {
		return
	}
	svc.mailer.SendMessages(&core.EmailMessage{
		To:           []mail.Address{*svc.salesInbox},
		Subject:      "New lead: " + l.Feature,
		TemplateName: notificationTemplate,
		TemplateData: l,
	})
}

package emailsvc

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/agendaestudiantil/backend/core"
)

type sendgridService struct {
	conf       *core.Config
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*sendgridService)(nil)

// NewSendgridService delivers through the SendGrid v3 API (PROD).
func NewSendgridService(conf *core.Config, logger core.Logger) *sendgridService {
	core.ParseEmailTemplates(logger)
	from := conf.DefaultFromEmail()
	return &sendgridService{
		conf:       conf,
		client:     sendgrid.NewSendClient(conf.SendgridApiKey),
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

// SendMessages sends in the background; failures are logged with the first recipient.
func (svc sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := svc.send(msg); err != nil {
				svc.logger.Error(fmt.Sprintf("sending %q email: %v", msg.TemplateName, err), err, recipient(msg))
			}
		}()
	}
}

func (svc sendgridService) send(msg *core.EmailMessage) error {
	if err := msg.Render(svc.conf); err != nil {
		return errors.Wrap(err, "rendering email")
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return nil
	}

	res, err := svc.client.Send(svc.prepare(*msg))
	if err != nil {
		return errors.Wrap(err, "calling sendgrid")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// prepare builds one personalization holding every recipient.
func (svc sendgridService) prepare(msg core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return m
}

// recipient identifies the addressee in error reports.
func recipient(msg *core.EmailMessage) core.Person {
	if len(msg.To) == 0 {
		return core.Person{}
	}
	return core.Person{Name: msg.To[0].Name, Email: msg.To[0].Address}
}

package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/justatarek/ergodnc/internal/config"
	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/utils"
)

/*
   Notifier is the outbound notification boundary. Every method is
   fire-and-forget: implementations log failures and never surface them,
   and callers only invoke these after the transactional boundary has
   committed (and outside any lock).
*/
type Notifier interface {
	ReservationCreated(visitor, host *models.User, rsv *models.Reservation, office *models.Office)
	ReservationStarting(visitor, host *models.User, rsv *models.Reservation, office *models.Office)
	OfficePendingApproval(admins []*models.User, office *models.Office)
}

/* ------------------------------------------------------------------
   SendGrid + Twilio implementation
------------------------------------------------------------------ */

type notificationService struct {
	cfg      *config.Config
	sgClient *sendgrid.Client
	twClient *twilio.RestClient
}

func NewNotificationService(cfg *config.Config, sgClient *sendgrid.Client, twClient *twilio.RestClient) Notifier {
	return &notificationService{cfg: cfg, sgClient: sgClient, twClient: twClient}
}

func (n *notificationService) ReservationCreated(visitor, host *models.User, rsv *models.Reservation, office *models.Office) {
	dates := fmt.Sprintf("%s to %s", rsv.StartDate.Format("2006-01-02"), rsv.EndDate.Format("2006-01-02"))
	if visitor != nil {
		n.dispatch(visitor, "Reservation confirmed",
			fmt.Sprintf("Your reservation at %q (%s) is confirmed.", office.Title, dates))
	}
	if host != nil {
		n.dispatch(host, "New reservation on your office",
			fmt.Sprintf("Your office %q was reserved for %s.", office.Title, dates))
	}
}

func (n *notificationService) ReservationStarting(visitor, host *models.User, rsv *models.Reservation, office *models.Office) {
	if visitor != nil {
		n.dispatch(visitor, "Your reservation starts today",
			fmt.Sprintf("Your reservation at %q starts today.", office.Title))
	}
	if host != nil {
		n.dispatch(host, "A reservation on your office starts today",
			fmt.Sprintf("A reservation on your office %q starts today.", office.Title))
	}
}

func (n *notificationService) OfficePendingApproval(admins []*models.User, office *models.Office) {
	for _, admin := range admins {
		n.dispatch(admin, "Office pending approval",
			fmt.Sprintf("Office %q (%s) is waiting for review.", office.Title, office.ID))
	}
}

// dispatch sends asynchronously; delivery failures are logged, never
// propagated.
func (n *notificationService) dispatch(recipient *models.User, subject, body string) {
	go func() {
		if n.sgClient != nil {
			from := mail.NewEmail(config.OrganizationName, n.cfg.SendGridFrom)
			to := mail.NewEmail(recipient.Name, recipient.Email)
			msg := mail.NewSingleEmail(from, subject, to, body, body)
			if _, err := n.sgClient.Send(msg); err != nil {
				utils.Logger.WithError(err).Warnf("Email send failure to user %s", recipient.ID)
			}
		} else {
			utils.Logger.Debugf("SendGrid client is nil, skipping email to user %s", recipient.ID)
		}

		if n.twClient != nil && recipient.Phone != nil && *recipient.Phone != "" {
			params := &twilioApi.CreateMessageParams{}
			params.SetTo(*recipient.Phone)
			params.SetFrom(n.cfg.TwilioFromPhone)
			params.SetBody(subject + " :: " + body)
			if _, err := n.twClient.Api.CreateMessage(params); err != nil {
				utils.Logger.WithError(err).Warnf("SMS send failure to user %s", recipient.ID)
			}
		}
	}()
}

package application

import (
	"context"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/pkg/mailer"
	tpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

// Notifier enqueues account emails for the email worker.
type Notifier interface {
	Welcome(ctx context.Context, a *entity.Account) error
	ProfileUpdated(ctx context.Context, a *entity.Account, changes map[string]string) error
}

// JobPublisher is satisfied by helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type EmailNotifier struct {
	Pub     JobPublisher
	AppName string
}

func NewEmailNotifier(pub JobPublisher, appName string) *EmailNotifier {
	return &EmailNotifier{Pub: pub, AppName: appName}
}

func (n *EmailNotifier) Welcome(ctx context.Context, a *entity.Account) error {
	return n.Pub.PublishJSON(ctx, mailer.EmailJob{
		To:       a.Email,
		Template: tpl.Welcome,
		Data:     tpl.NewWelcomeData(n.AppName, deref(a.FullName), a.Email),
	})
}

func (n *EmailNotifier) ProfileUpdated(ctx context.Context, a *entity.Account, changes map[string]string) error {
	return n.Pub.PublishJSON(ctx, mailer.EmailJob{
		To:       a.Email,
		Template: tpl.ProfileUpdated,
		Data:     tpl.NewProfileUpdatedData(n.AppName, deref(a.FullName), a.Email, changes),
	})
}

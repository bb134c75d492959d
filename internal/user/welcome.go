package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/mail"
)

// MailWelcomeSender emails the temporary password with a link to the login page.
type MailWelcomeSender struct {
	mailer mail.Mailer
	app    internal.AppConfig
}

func NewMailWelcomeSender(mailer mail.Mailer, app internal.AppConfig) *MailWelcomeSender {
	return &MailWelcomeSender{mailer: mailer, app: app}
}

func (s *MailWelcomeSender) SendWelcome(ctx context.Context, u *User, temporaryPassword string) error {
	html, err := mail.RenderBranded(mail.Branded{
		Brand:     s.app.Name,
		Title:     "Bienvenue sur votre espace RH",
		Preheader: "Vos identifiants de connexion",
		Greeting:  fmt.Sprintf("Bonjour %s,", u.FirstName),
		Paragraphs: []string{
			"Un compte a été créé pour vous sur le portail RH.",
			fmt.Sprintf("Identifiant : %s", u.Email),
			fmt.Sprintf("Mot de passe temporaire : %s", temporaryPassword),
			"Pensez à modifier votre mot de passe après votre première connexion.",
		},
		ActionURL:  strings.TrimRight(s.app.PublicURL, "/") + "/login",
		ActionText: "Se connecter",
	})
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, mail.Message{
		To:      u.Email,
		Subject: "Bienvenue - vos identifiants",
		HTML:    html,
	})
}

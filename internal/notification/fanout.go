package notification

import (
	"fmt"

	coreuser "github.com/frahmantamala/staff-requests/internal/core/user"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

// Review and history pages of the web front-end, per request family.
const (
	LinkHRAdvances       = "/dashboard/rh/acomptes"
	LinkEmployeeAdvances = "/dashboard/salarie"
	LinkHRLeaves         = "/dashboard/rh/conges"
	LinkEmployeeLeaves   = "/dashboard/salarie/conges"
	LinkHRServices       = "/dashboard/rh/services"
	LinkEmployeeServices = "/dashboard/salarie/services"
)

// Details describes the request in a short phrase that follows the request
// noun, e.g. "de 200 € pour 2024-04".
type Details struct {
	Label string
}

func noun(kind Kind) string {
	switch kind {
	case KindAdvance:
		return "demande d'acompte"
	case KindLeave:
		return "demande de congé"
	case KindService:
		return "demande de service"
	default:
		return "demande"
	}
}

// HRLink is where reviewers handle requests of this kind.
func HRLink(kind Kind) string {
	switch kind {
	case KindAdvance:
		return LinkHRAdvances
	case KindLeave:
		return LinkHRLeaves
	case KindService:
		return LinkHRServices
	default:
		return "/dashboard/rh"
	}
}

// EmployeeLink is the submitter's history view for this kind.
func EmployeeLink(kind Kind) string {
	switch kind {
	case KindAdvance:
		return LinkEmployeeAdvances
	case KindLeave:
		return LinkEmployeeLeaves
	case KindService:
		return LinkEmployeeServices
	default:
		return "/dashboard/salarie"
	}
}

func describe(kind Kind, d Details) string {
	if d.Label == "" {
		return noun(kind)
	}
	return noun(kind) + " " + d.Label
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// ForSubmission builds one message per HR user plus a confirmation for the
// submitter. An HR user submitting their own request gets only the
// confirmation.
func ForSubmission(kind Kind, submitter coreuser.Profile, hrUsers []coreuser.Profile, d Details) []Message {
	status := string(workflow.StatusPending)
	what := describe(kind, d)

	msgs := make([]Message, 0, len(hrUsers)+1)
	for _, hr := range hrUsers {
		if hr.ID == submitter.ID {
			continue
		}
		msgs = append(msgs, Message{
			RecipientID: hr.ID,
			Title:       "Nouvelle " + noun(kind),
			Body:        fmt.Sprintf("%s a soumis une %s.", submitter.DisplayName(), what),
			Kind:        kind,
			Status:      status,
			Link:        HRLink(kind),
		})
	}

	msgs = append(msgs, Message{
		RecipientID: submitter.ID,
		Title:       capitalize(noun(kind)) + " envoyée",
		Body:        fmt.Sprintf("Votre %s a bien été enregistrée et sera examinée par les RH.", what),
		Kind:        kind,
		Status:      status,
		Link:        EmployeeLink(kind),
	})
	return msgs
}

// ForDecision builds the single outcome message for the submitter.
func ForDecision(kind Kind, submitterID int64, status workflow.Status, d Details) Message {
	verb := "refusée"
	if status == workflow.StatusApproved {
		verb = "approuvée"
	}
	return Message{
		RecipientID: submitterID,
		Title:       fmt.Sprintf("%s %s", capitalize(noun(kind)), verb),
		Body:        fmt.Sprintf("Votre %s a été %s.", describe(kind, d), verb),
		Kind:        kind,
		Status:      string(status),
		Link:        EmployeeLink(kind),
	}
}

package notification_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/staff-requests/internal"
	coreuser "github.com/frahmantamala/staff-requests/internal/core/user"
	"github.com/frahmantamala/staff-requests/internal/notification"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

var _ = Describe("Fan-out", func() {
	marie := coreuser.Profile{ID: 10, Email: "marie@example.com", FirstName: "Marie", LastName: "Dupont", Role: internal.RoleEmployee}
	claire := coreuser.Profile{ID: 1, FirstName: "Claire", LastName: "Martin", Role: internal.RoleHR}
	paul := coreuser.Profile{ID: 2, FirstName: "Paul", LastName: "Roux", Role: internal.RoleHR}

	Describe("ForSubmission", func() {
		It("notifies every HR user and confirms to the submitter", func() {
			msgs := notification.ForSubmission(notification.KindLeave, marie, []coreuser.Profile{claire, paul}, notification.Details{Label: "du 2024-04-01 au 2024-04-05"})
			Expect(msgs).To(HaveLen(3))

			for _, m := range msgs[:2] {
				Expect(m.Title).To(Equal("Nouvelle demande de congé"))
				Expect(m.Body).To(ContainSubstring("Marie Dupont a soumis une demande de congé du 2024-04-01 au 2024-04-05"))
				Expect(m.Link).To(Equal(notification.LinkHRLeaves))
				Expect(m.Status).To(Equal("PENDING"))
				Expect(m.Kind).To(Equal(notification.KindLeave))
			}
			Expect([]int64{msgs[0].RecipientID, msgs[1].RecipientID}).To(ConsistOf(int64(1), int64(2)))

			self := msgs[2]
			Expect(self.RecipientID).To(Equal(marie.ID))
			Expect(self.Title).To(Equal("Demande de congé envoyée"))
			Expect(self.Link).To(Equal(notification.LinkEmployeeLeaves))
		})

		It("only confirms to an HR submitter", func() {
			msgs := notification.ForSubmission(notification.KindAdvance, claire, []coreuser.Profile{claire, paul}, notification.Details{})
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].RecipientID).To(Equal(paul.ID))
			Expect(msgs[1].RecipientID).To(Equal(claire.ID))
			Expect(msgs[1].Link).To(Equal(notification.LinkEmployeeAdvances))
		})

		It("still confirms when there is no HR user", func() {
			msgs := notification.ForSubmission(notification.KindService, marie, nil, notification.Details{})
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Link).To(Equal(notification.LinkEmployeeServices))
		})
	})

	DescribeTable("ForDecision",
		func(kind notification.Kind, status workflow.Status, title, link string) {
			m := notification.ForDecision(kind, marie.ID, status, notification.Details{})
			Expect(m.RecipientID).To(Equal(marie.ID))
			Expect(m.Title).To(Equal(title))
			Expect(m.Status).To(Equal(string(status)))
			Expect(m.Link).To(Equal(link))
		},
		Entry("approved advance", notification.KindAdvance, workflow.StatusApproved, "Demande d'acompte approuvée", "/dashboard/salarie"),
		Entry("rejected leave", notification.KindLeave, workflow.StatusRejected, "Demande de congé refusée", "/dashboard/salarie/conges"),
		Entry("approved service", notification.KindService, workflow.StatusApproved, "Demande de service approuvée", "/dashboard/salarie/services"),
	)
})

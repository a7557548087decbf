package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/site-monitor/internal/models"
)

var _ = Describe("Site", func() {
	Describe("WithManualDefaults", func() {
		It("should fill category and priority when empty", func() {
			s := models.Site{Name: "Tecnuv", URL: "https://tecnuv.com.br"}.WithManualDefaults()
			Expect(s.Category).To(Equal(models.CategoryManual))
			Expect(s.Priority).To(Equal(models.PriorityNormal))
		})

		It("should keep explicit values", func() {
			s := models.Site{
				Name:     "api",
				URL:      "https://api.example.com",
				Category: models.CategoryAPI,
				Priority: models.PriorityCritical,
			}.WithManualDefaults()
			Expect(s.Category).To(Equal(models.CategoryAPI))
			Expect(s.Priority).To(Equal(models.PriorityCritical))
		})

		It("should pass unknown values through", func() {
			s := models.Site{Name: "x", URL: "https://x.io", Category: "edge"}.WithManualDefaults()
			Expect(s.Category).To(Equal(models.Category("edge")))
			Expect(s.Category.Known()).To(BeFalse())
		})
	})

	Describe("Validate", func() {
		It("should accept an https site", func() {
			Expect(models.Site{Name: "a", URL: "https://a.example.com"}.Validate()).To(Succeed())
		})

		It("should reject a missing name", func() {
			Expect(models.Site{URL: "https://a.example.com"}.Validate()).NotTo(Succeed())
		})

		It("should reject a URL without scheme", func() {
			Expect(models.Site{Name: "a", URL: "a.example.com"}.Validate()).NotTo(Succeed())
		})

		It("should reject a non-http scheme", func() {
			Expect(models.Site{Name: "a", URL: "ftp://a.example.com"}.Validate()).NotTo(Succeed())
		})
	})

	Describe("Known", func() {
		It("should recognise enumerated priorities", func() {
			Expect(models.PriorityLow.Known()).To(BeTrue())
			Expect(models.Priority("urgent").Known()).To(BeFalse())
		})
	})
})

var _ = Describe("CheckCycle", func() {
	It("should count online results and list offline ones in order", func() {
		cycle := models.CheckCycle{Results: []models.CheckResult{
			{Site: models.Site{Name: "a"}, Reachable: true},
			{Site: models.Site{Name: "b"}, Error: "Timeout"},
			{Site: models.Site{Name: "c"}, Error: "refused"},
		}}
		Expect(cycle.Online()).To(Equal(1))
		offline := cycle.Offline()
		Expect(offline).To(HaveLen(2))
		Expect(offline[0].Name).To(Equal("b"))
		Expect(offline[1].Name).To(Equal("c"))
	})

	It("should classify the reachable status range", func() {
		Expect(models.IsReachableStatus(199)).To(BeFalse())
		Expect(models.IsReachableStatus(200)).To(BeTrue())
		Expect(models.IsReachableStatus(399)).To(BeTrue())
		Expect(models.IsReachableStatus(400)).To(BeFalse())
	})
})

package sources_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/site-monitor/internal/models"
	"github.com/angeloszaimis/site-monitor/internal/sources"
)

var _ = Describe("State", func() {
	var state *sources.State

	BeforeEach(func() {
		state = &sources.State{
			Manual: []models.Site{
				{Name: "Epsy", URL: "https://epsy.com.br"},
				{Name: "Dup", URL: "https://shop.com", Priority: models.PriorityHigh},
			},
			External: []models.Site{
				{Name: "shop.com", URL: "https://shop.com", Category: models.CategoryWHM, Priority: models.PriorityNormal},
			},
		}
	})

	Describe("WorkingSet", func() {
		It("should put manual entries first with defaults and keep duplicates", func() {
			set := state.WorkingSet()
			Expect(set).To(HaveLen(3))
			Expect(set[0].Name).To(Equal("Epsy"))
			Expect(set[0].Category).To(Equal(models.CategoryManual))
			Expect(set[0].Priority).To(Equal(models.PriorityNormal))
			Expect(set[1].Priority).To(Equal(models.PriorityHigh))
			Expect(set[1].URL).To(Equal(set[2].URL))
			Expect(set[2].Category).To(Equal(models.CategoryWHM))
		})

		It("should be empty for an empty state", func() {
			Expect((&sources.State{}).WorkingSet()).To(BeEmpty())
		})
	})

	Describe("AddManual", func() {
		It("should append a defaulted site", func() {
			Expect(state.AddManual(models.Site{Name: "Postogestor", URL: "https://postogestor.com.br"})).To(Succeed())
			Expect(state.Manual).To(HaveLen(3))
			Expect(state.Manual[2].Category).To(Equal(models.CategoryManual))
		})

		It("should reject a duplicate name", func() {
			err := state.AddManual(models.Site{Name: "Epsy", URL: "https://other.com"})
			Expect(errors.Is(err, sources.ErrSiteExists)).To(BeTrue())
		})

		It("should reject an invalid URL", func() {
			Expect(state.AddManual(models.Site{Name: "bad", URL: "not a url"})).NotTo(Succeed())
			Expect(state.Manual).To(HaveLen(2))
		})
	})

	Describe("RemoveManual", func() {
		It("should remove by name", func() {
			Expect(state.RemoveManual("Epsy")).To(Succeed())
			Expect(state.Manual).To(HaveLen(1))
			Expect(state.Manual[0].Name).To(Equal("Dup"))
		})

		It("should report a missing name", func() {
			err := state.RemoveManual("nope")
			Expect(errors.Is(err, sources.ErrSiteNotFound)).To(BeTrue())
		})
	})
})

var _ = Describe("SyncPolicy", func() {
	var (
		policy sources.SyncPolicy
		now    time.Time
	)

	BeforeEach(func() {
		policy = sources.SyncPolicy{Interval: time.Hour}
		now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	It("should be due when never synced", func() {
		Expect(policy.Due(nil, now)).To(BeTrue())
	})

	It("should not be due at exactly the threshold", func() {
		last := now.Add(-time.Hour)
		Expect(policy.Due(&last, now)).To(BeFalse())
	})

	It("should be due once the threshold is exceeded", func() {
		last := now.Add(-time.Hour - time.Second)
		Expect(policy.Due(&last, now)).To(BeTrue())
	})

	It("should not be due again until the threshold re-elapses", func() {
		synced := now
		for _, offset := range []time.Duration{0, time.Minute, 30 * time.Minute, time.Hour} {
			Expect(policy.Due(&synced, now.Add(offset))).To(BeFalse())
		}
		Expect(policy.Due(&synced, now.Add(time.Hour+time.Nanosecond))).To(BeTrue())
	})

	It("should default the interval to one hour", func() {
		last := now.Add(-59 * time.Minute)
		Expect(sources.SyncPolicy{}.Due(&last, now)).To(BeFalse())
	})
})

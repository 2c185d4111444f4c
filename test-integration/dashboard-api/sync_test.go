package integration

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/service"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sources"
	"github.com/stacklok/mgnrega-dashboard-server/internal/status"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sync/coordinator"
	"github.com/stacklok/mgnrega-dashboard-server/test-integration/dashboard-api/helpers"
)

var _ = Describe("Data Sync Integration", Label("sync"), func() {
	var (
		upstream     *helpers.MockUpstream
		serverHelper *helpers.ServerTestHelper
	)

	triggerSync := func() coordinator.Result {
		resp, err := serverHelper.Post("/api/sync", nil)
		Expect(err).NotTo(HaveOccurred())
		var result coordinator.Result
		helpers.DecodeJSON(resp, http.StatusOK, &result)
		return result
	}

	BeforeEach(func() {
		upstream = helpers.NewMockUpstream(
			helpers.UpstreamRecord("LUCKNOW", "2023-24", "January", 1234),
			helpers.UpstreamRecord("LUCKNOW", "2023-24", "February", 1300),
			helpers.UpstreamRecord("KANPUR", "2023-24", "January", 900),
		)
		serverHelper = helpers.NewServerTestHelper(ctx, upstream.URL)
	})

	AfterEach(func() {
		serverHelper.Close()
		upstream.Close()
	})

	Context("with a healthy upstream", func() {
		It("should ingest real records and serve them", func() {
			result := triggerSync()
			Expect(result.Success).To(BeTrue())
			Expect(result.Source).To(Equal(sources.KindReal))
			Expect(result.RecordsProcessed).To(Equal(3))
			Expect(upstream.Requests()).To(Equal(1))

			resp, err := serverHelper.Get("/api/district-data/up_lucknow?year=2023-24")
			Expect(err).NotTo(HaveOccurred())
			var data service.DistrictData
			helpers.DecodeJSON(resp, http.StatusOK, &data)

			Expect(data.District.NameEn).To(Equal("Lucknow"))
			Expect(data.HistoricalData).To(HaveLen(2))
			for _, rec := range data.HistoricalData {
				Expect(rec.Synthetic).To(BeFalse())
				Expect(rec.FinancialYear).To(Equal("2023-2024"))
			}
		})

		It("should reuse the cached upstream response on the next run", func() {
			Expect(triggerSync().Source).To(Equal(sources.KindReal))

			second := triggerSync()
			Expect(second.Success).To(BeTrue())
			Expect(second.Source).To(Equal(sources.KindCached))
			Expect(upstream.Requests()).To(Equal(1))
		})

		It("should report the runs in the sync status", func() {
			triggerSync()
			triggerSync()

			resp, err := serverHelper.Get("/api/sync/status")
			Expect(err).NotTo(HaveOccurred())
			var st status.SyncStatus
			helpers.DecodeJSON(resp, http.StatusOK, &st)

			Expect(st.InProgress).To(BeFalse())
			Expect(st.CanSync).To(BeTrue())
			Expect(st.LastSyncTime).NotTo(BeNil())
			Expect(st.Stats.TotalRuns).To(Equal(2))
			Expect(st.Stats.SuccessfulRuns).To(Equal(2))
			Expect(st.Stats.SyntheticRuns).To(BeZero())
			Expect(st.Stats.CumulativeRecordsProcessed).To(BeEquivalentTo(6))
		})
	})

	Context("when the upstream fails", func() {
		It("should fall back to the synthetic data set", func() {
			upstream.FailWith(http.StatusServiceUnavailable)

			result := triggerSync()
			Expect(result.Success).To(BeTrue())
			Expect(result.Source).To(Equal(sources.KindSynthetic))
			Expect(result.RecordsProcessed).To(Equal(30))
		})

		It("should fall back when the upstream has no records", func() {
			upstream.SetRecords()

			Expect(triggerSync().Source).To(Equal(sources.KindSynthetic))
		})

		It("should keep real records when synthetic ones arrive later", func() {
			Expect(triggerSync().Source).To(Equal(sources.KindReal))

			upstream.FailWith(http.StatusServiceUnavailable)
			resp, err := serverHelper.Delete("/api/cache?pattern=%5Eapi_")
			Expect(err).NotTo(HaveOccurred())
			helpers.DecodeJSON(resp, http.StatusOK, nil)

			Expect(triggerSync().Source).To(Equal(sources.KindSynthetic))

			resp, err = serverHelper.Get("/api/district-data/up_lucknow?year=2023-24")
			Expect(err).NotTo(HaveOccurred())
			var data service.DistrictData
			helpers.DecodeJSON(resp, http.StatusOK, &data)

			realByMonth := make(map[string]records.Record)
			for _, rec := range data.HistoricalData {
				if !rec.Synthetic {
					realByMonth[rec.Month] = rec
				}
			}
			Expect(realByMonth).To(HaveLen(2))
			Expect(data.HistoricalData).To(ContainElement(HaveField("HouseholdsWorked", BeEquivalentTo(1234))))
		})
	})
})

package integration

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/mgnrega-dashboard-server/internal/api/v1"
	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
	"github.com/stacklok/mgnrega-dashboard-server/internal/service"
	"github.com/stacklok/mgnrega-dashboard-server/test-integration/dashboard-api/helpers"
)

var _ = Describe("Dashboard API Integration", Label("api"), func() {
	var (
		upstream     *helpers.MockUpstream
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		upstream = helpers.NewMockUpstream(helpers.UpstreamRecord("KANPUR", "2024-25", "April", 500))
		serverHelper = helpers.NewServerTestHelper(ctx, upstream.URL)
	})

	AfterEach(func() {
		serverHelper.Close()
		upstream.Close()
	})

	It("should report health", func() {
		resp, err := serverHelper.Get("/health")
		Expect(err).NotTo(HaveOccurred())
		helpers.DecodeJSON(resp, http.StatusOK, nil)
	})

	It("should list the seeded states and districts", func() {
		resp, err := serverHelper.Get("/api/states")
		Expect(err).NotTo(HaveOccurred())
		var states []reference.State
		helpers.DecodeJSON(resp, http.StatusOK, &states)
		Expect(states).To(ContainElement(HaveField("Code", "up")))

		resp, err = serverHelper.Get("/api/districts/up")
		Expect(err).NotTo(HaveOccurred())
		var districts []reference.District
		helpers.DecodeJSON(resp, http.StatusOK, &districts)
		Expect(districts).To(ContainElement(HaveField("Code", "up_kanpur")))
	})

	It("should return 404 for unknown districts", func() {
		resp, err := serverHelper.Get("/api/district-data/up_atlantis")
		Expect(err).NotTo(HaveOccurred())
		helpers.DecodeJSON(resp, http.StatusNotFound, nil)
	})

	It("should resolve the nearest district", func() {
		resp, err := serverHelper.Post("/api/reverse-geocode", map[string]float64{
			"latitude":  26.45,
			"longitude": 80.33,
		})
		Expect(err).NotTo(HaveOccurred())
		var district reference.District
		helpers.DecodeJSON(resp, http.StatusOK, &district)
		Expect(district.Code).To(Equal("up_kanpur"))

		resp, err = serverHelper.Post("/api/reverse-geocode", map[string]string{"latitude": "north"})
		Expect(err).NotTo(HaveOccurred())
		helpers.DecodeJSON(resp, http.StatusBadRequest, nil)
	})

	It("should serve district data from cache until it is cleared", func() {
		resp, err := serverHelper.Post("/api/sync", nil)
		Expect(err).NotTo(HaveOccurred())
		helpers.DecodeJSON(resp, http.StatusOK, nil)

		resp, err = serverHelper.Get("/api/district-data/up_kanpur")
		Expect(err).NotTo(HaveOccurred())
		var data service.DistrictData
		helpers.DecodeJSON(resp, http.StatusOK, &data)
		Expect(data.HistoricalData).To(HaveLen(1))

		resp, err = serverHelper.Get("/api/cache/stats")
		Expect(err).NotTo(HaveOccurred())
		var stats cache.Stats
		helpers.DecodeJSON(resp, http.StatusOK, &stats)
		Expect(stats.Active).To(BeNumerically(">=", 2))

		resp, err = serverHelper.Post("/api/clear-cache/up_kanpur", nil)
		Expect(err).NotTo(HaveOccurred())
		var cleared v1.ClearCacheResponse
		helpers.DecodeJSON(resp, http.StatusOK, &cleared)
		Expect(cleared.Success).To(BeTrue())
		Expect(cleared.Cleared).To(BeEquivalentTo(1))
	})
})

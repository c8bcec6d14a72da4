package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithMetricPrefix("x_"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})

			Convey("And metric names should carry namespace, subsystem and prefix", func() {
				manager.picksStarted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_ns_test_sub_x_picks_started_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When passing empty or invalid values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithRefreshInterval(-1*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "lunchroulette")
				So(manager.subsystem, ShouldEqual, "picker")
				So(manager.histogramBuckets, ShouldResemble, defaultLatencyBucketsMs)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestLatencyHistogramsUseMilliseconds(t *testing.T) {
	Convey("Given a manager with default buckets", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When a pick stream of several seconds is observed", func() {
			manager.httpRequestDuration.WithLabelValues("pick", "GET", "200").Observe(5300)
			manager.errorLatency.WithLabelValues("places", "timeout").Observe(2400)

			Convey("Then it lands in a finite bucket", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				checked := 0
				for _, f := range families {
					switch f.GetName() {
					case "lunchroulette_picker_http_request_duration_milliseconds",
						"lunchroulette_picker_error_latency_milliseconds":
						checked++
						h := f.GetMetric()[0].GetHistogram()
						So(h.GetSampleCount(), ShouldEqual, 1)
						var finite bool
						for _, b := range h.GetBucket() {
							if b.GetUpperBound() <= 7500 && b.GetCumulativeCount() == 1 {
								finite = true
							}
						}
						So(finite, ShouldBeTrue)
					}
				}
				So(checked, ShouldEqual, 2)
			})
		})
	})
}

func TestGlobalManagerSettings(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Reset(func() {
			SetEnabled(true)
			SetRefreshInterval(defaultRefreshInterval)
		})

		Convey("When the refresh interval is changed", func() {
			SetRefreshInterval(250 * time.Millisecond)
			SetRefreshInterval(0)

			Convey("Then the last positive value is kept", func() {
				So(RefreshInterval(), ShouldEqual, 250*time.Millisecond)
			})
		})

		Convey("When recording is disabled", func() {
			before := testutil.ToFloat64(globalManager.picksStarted)
			SetEnabled(false)
			RecordPickStarted()

			Convey("Then nothing is recorded", func() {
				So(Enabled(), ShouldBeFalse)
				So(testutil.ToFloat64(globalManager.picksStarted), ShouldEqual, before)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pick flow metrics", func() {
			before := testutil.ToFloat64(globalManager.picksStarted)
			RecordPickStarted()
			RecordPickStarted()

			Convey("Then the counter should advance", func() {
				So(testutil.ToFloat64(globalManager.picksStarted), ShouldEqual, before+2)
			})

			Convey("And outcomes should be labelled", func() {
				winner := globalManager.pickOutcomes.WithLabelValues("winner")
				base := testutil.ToFloat64(winner)
				RecordPickOutcome("winner", 5200)
				So(testutil.ToFloat64(winner), ShouldEqual, base+1)
			})
		})

		Convey("When tracking active sessions", func() {
			base := testutil.ToFloat64(globalManager.activeSessions)
			IncActiveSessions()
			IncActiveSessions()
			DecActiveSessions()

			Convey("Then the gauge should reflect the net count", func() {
				So(testutil.ToFloat64(globalManager.activeSessions), ShouldEqual, base+1)
				DecActiveSessions()
			})
		})

		Convey("When recording animator metrics", func() {
			ticks := testutil.ToFloat64(globalManager.rouletteTicks)
			for i := 0; i < 50; i++ {
				RecordRouletteTick()
			}
			RecordRouletteWinner()
			RecordRouletteAborted()

			Convey("Then ticks should be counted", func() {
				So(testutil.ToFloat64(globalManager.rouletteTicks), ShouldEqual, ticks+50)
			})
		})

		Convey("When recording places and HTTP metrics", func() {
			So(func() {
				RecordPlacesRequest("search_nearby", "ok", 120)
				RecordPlacesRequest("fetch_details", "error", 80)
				RecordSearchResultCount(20)
				RecordEnrichmentFallback("details_failed")
				RecordHTTPRequest("pick", "GET", "200")
				RecordHTTPRequestDuration("pick", "GET", "200", 5300)
				RecordErrorByComponent("places", "timeout")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("pick", "GET", "client_error")
				RecordErrorLatency("http", "client_error", 3)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("When gathering from the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then roulette metrics should be exposed", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsConcurrentRecording(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		done := make(chan struct{})
		for i := 0; i < 10; i++ {
			go func() {
				defer func() { done <- struct{}{} }()
				for j := 0; j < 100; j++ {
					RecordRouletteTick()
					RecordPlacesRequest("search_nearby", "ok", float64(j))
				}
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		Convey("Then it should handle concurrent access without panics", func() {
			So(testutil.ToFloat64(globalManager.rouletteTicks), ShouldBeGreaterThanOrEqualTo, 1000)
		})
	})
}

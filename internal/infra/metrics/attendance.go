package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		checkinsTotal,
		checkinRejectionsTotal,
		badgesAwardedTotal,
	)
}

var (
	checkinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_checkins_total",
			Help: "Accepted check-ins by evidence method and status.",
		},
		[]string{"method", "status"}, // status: 'present', 'late'
	)

	checkinRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_rejections_total",
			Help: "Rejected check-ins by reason.",
		},
		[]string{"reason"}, // 'not_enrolled', 'window_closed', 'inactive_student'
	)

	badgesAwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_badges_awarded_total",
			Help: "Milestone badges granted, by badge code.",
		},
		[]string{"code"},
	)
)

func IncCheckIn(method, status string) {
	checkinsTotal.WithLabelValues(norm(method), norm(status)).Inc()
}

func IncCheckInRejected(reason string) {
	checkinRejectionsTotal.WithLabelValues(norm(reason)).Inc()
}

func IncBadgeAwarded(code string) {
	badgesAwardedTotal.WithLabelValues(norm(code)).Inc()
}

package metrics

import (
	"strings"
	"sync"

	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProgressUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_progress_updates_total",
			Help: "Number of progress updates by result",
		},
		[]string{"result"},
	)

	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_lesson_submissions_total",
			Help: "Number of lesson submissions by result",
		},
		[]string{"result"},
	)

	ExperienceAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lms_experience_awarded_total",
			Help: "Total experience points awarded",
		},
	)

	LevelUps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lms_level_ups_total",
			Help: "Number of user level changes caused by submissions",
		},
	)

	Purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_course_purchases_total",
			Help: "Number of course purchase attempts by result",
		},
		[]string{"result"},
	)

	CronRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_cron_runs_total",
			Help: "Number of background job runs by job and status",
		},
		[]string{"job", "status"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ProgressUpdates, Submissions, ExperienceAwarded, LevelUps, Purchases, CronRuns)
	})
}

// Result labels a counter increment with "ok" or the error kind, e.g. "not_found".
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := apperror.KindOf(err); kind != nil {
		return strings.ReplaceAll(kind.Error(), " ", "_")
	}
	return "error"
}

package compute

import (
	"fmt"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/gbl08ma/sqalx"
	cache "github.com/patrickmn/go-cache"
	"github.com/zoobzio/clockz"

	"github.com/FerPaye01/sgcmi-reports/types"
)

var rootSqalxNode sqalx.Node
var mainLog *log.Logger
var clock clockz.Clock = clockz.RealClock

// reportCache holds recently computed bundles keyed by report, filter and
// thresholds, so dashboards polling the same period do not recompute on every
// request. Thresholds are part of the key because requests may override them.
var reportCache = cache.New(2*time.Minute, 10*time.Minute)

// Initialize initializes the package
func Initialize(snode sqalx.Node, log *log.Logger, c clockz.Clock) {
	rootSqalxNode = snode
	mainLog = log
	if c != nil {
		clock = c
	}
}

// Clock returns the time source report computations run against
func Clock() clockz.Clock {
	return clock
}

// nodeOrRoot falls back to the node given to Initialize when the caller does
// not bring its own transaction
func nodeOrRoot(node sqalx.Node) sqalx.Node {
	if node == nil {
		return rootSqalxNode
	}
	return node
}

// Thresholds carries every externally configurable cutoff used by the report
// generators. Zero values are not meaningful; start from DefaultThresholds.
type Thresholds struct {
	// appointment on-time window, minutes on each side of the scheduled time
	OnTimeWindowMin float64
	// vessel punctuality window, hours on each side of ETA
	PunctualityWindowH float64
	// waiting time above which an appointment counts as a long wait (R4)
	LongWaitH float64
	// slot size for berth utilization bucketing (R3)
	SlotHours float64
	// slots below this utilization count as idle (R3)
	IdleSlotPct float64
	// theoretical gate capacity, vehicles per hour (R6)
	GateCapacityPerHour int
	// fraction of capacity above which an hour is flagged as a peak (R6)
	PeakFraction float64
	// dispatch time umbral, hours (R8)
	DispatchUmbralH float64
	// berth utilization alert threshold, percent (R11)
	UtilizationAlertPct float64
	// mean truck waiting alert threshold, hours (R11)
	WaitingAlertH float64
	// yellow band upper factor: threshold..threshold*factor is yellow (R11)
	AlertBandFactor float64
	// SLA targets, percent (R12)
	SLAOnTimePct   float64
	SLAApprovalPct float64
	// executive panel goals (R10)
	GoalTurnaroundH    float64
	GoalWaitingH       float64
	GoalCompliancePct  float64
	GoalApprovalPct    float64
}

// DefaultThresholds returns the domain defaults. The ±15 min window and the
// 6 h / 4 h waiting references are fixed by the business rules; the rest are
// operator-tunable.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OnTimeWindowMin:     15,
		PunctualityWindowH:  1,
		LongWaitH:           6,
		SlotHours:           8,
		IdleSlotPct:         10,
		GateCapacityPerHour: 30,
		PeakFraction:        0.8,
		DispatchUmbralH:     48,
		UtilizationAlertPct: 85,
		WaitingAlertH:       4,
		AlertBandFactor:     1.15,
		SLAOnTimePct:        90,
		SLAApprovalPct:      95,
		GoalTurnaroundH:     36,
		GoalWaitingH:        2,
		GoalCompliancePct:   90,
		GoalApprovalPct:     95,
	}
}

// round2 rounds to two decimals. Only applied at KPI emission, never on
// intermediate values.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// mean returns the arithmetic mean of samples, or 0 for an empty slice
func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// pct returns part over total as a percentage, or 0 when total is 0
func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func cacheKey(report string, filter *types.ReportFilter, user *types.User, th Thresholds) string {
	key := fmt.Sprintf("%s|%d|%d|%s|%s|%s|%s|%s|%s|%s|%v",
		report, filter.From.Unix(), filter.To.Unix(),
		filter.BerthID, filter.VesselID, filter.CompanyID, filter.GateID,
		filter.EntidadID, filter.Regimen, filter.Estado, th)
	if user.IsCarrier() {
		key += "|" + user.CompanyID
	}
	return key
}

func cachedReport[T any](report string, filter *types.ReportFilter, user *types.User, th Thresholds, build func() (T, error)) (T, error) {
	key := cacheKey(report, filter, user, th)
	if cached, found := reportCache.Get(key); found {
		return cached.(T), nil
	}
	result, err := build()
	if err == nil {
		atomic.AddUint64(&computedReports, 1)
		reportCache.Set(key, result, cache.DefaultExpiration)
	}
	return result, err
}

var computedReports uint64

// ComputedReports returns how many report bundles were computed (cache hits
// excluded) since the process started
func ComputedReports() uint64 {
	return atomic.LoadUint64(&computedReports)
}

// dataQuality logs an anomalous record without failing the computation
func dataQuality(format string, args ...interface{}) {
	if mainLog != nil {
		mainLog.Printf("data quality: "+format, args...)
	}
}

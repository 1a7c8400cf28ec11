package compute

import (
	"sort"
	"time"

	"github.com/gbl08ma/sqalx"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// BerthSlotRow is the utilization of one berth during one time slot
type BerthSlotRow struct {
	BerthID        string    `msgpack:"amarraderoId" json:"amarradero_id"`
	BerthName      string    `msgpack:"amarradero" json:"amarradero"`
	SlotStart      time.Time `msgpack:"slotInicio" json:"slot_inicio"`
	UtilizacionPct float64   `msgpack:"utilizacionPct" json:"utilizacion_pct"`
}

// BerthGroup is the per-berth utilization summary
type BerthGroup struct {
	BerthID      string  `msgpack:"amarraderoId" json:"amarradero_id"`
	BerthName    string  `msgpack:"amarradero" json:"amarradero"`
	PromedioPct  float64 `msgpack:"promedioPct" json:"promedio_pct"`
	MaximaPct    float64 `msgpack:"maximaPct" json:"maxima_pct"`
	HorasOciosas float64 `msgpack:"horasOciosas" json:"horas_ociosas"`
	Conflictos   int     `msgpack:"conflictos" json:"conflictos"`
}

// BerthReport is the R3 bundle: berth occupancy over the requested range
type BerthReport struct {
	Data          []BerthSlotRow     `msgpack:"data" json:"data"`
	KPIs          map[string]float64 `msgpack:"kpis" json:"kpis"`
	PorAmarradero []BerthGroup       `msgpack:"porAmarradero" json:"por_amarradero"`
}

// GenerateR3 produces the berth utilization report for the filtered calls
func GenerateR3(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*BerthReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r3", filter, user, th, func() (*BerthReport, error) {
		calls, err := types.GetVesselCallsBetween(node, filter)
		if err != nil {
			return nil, err
		}
		return buildBerthReport(calls, filter.From, filter.To, th), nil
	})
}

// occupancyIntervals derives berth occupancy windows from ATB/ATD pairs. A
// call still berthed (no ATD yet) occupies through the end of the range.
func occupancyIntervals(calls []*types.VesselCall, rangeEnd time.Time) []Interval {
	intervals := []Interval{}
	for _, call := range calls {
		if call.ATB == nil {
			continue
		}
		end := rangeEnd
		if call.ATD != nil {
			end = *call.ATD
		}
		if !call.ATB.Before(end) {
			continue
		}
		intervals = append(intervals, Interval{Key: call.BerthID, Start: *call.ATB, End: end})
	}
	return intervals
}

func buildBerthReport(calls []*types.VesselCall, from, to time.Time, th Thresholds) *BerthReport {
	report := &BerthReport{Data: []BerthSlotRow{}, PorAmarradero: []BerthGroup{}}

	occupied := occupancyIntervals(calls, to)
	slots := BucketRange(from, to, time.Duration(th.SlotHours*float64(time.Hour)))
	slotLen := time.Duration(th.SlotHours * float64(time.Hour))

	berthNames := map[string]string{}
	for _, call := range calls {
		berthNames[call.BerthID] = call.BerthName
	}
	berthIDs := make([]string, 0, len(berthNames))
	for id := range berthNames {
		berthIDs = append(berthIDs, id)
	}
	sort.Strings(berthIDs)

	allUtil := []float64{}
	maxUtil := 0.0
	idleSlots := 0
	totalConflicts := 0

	for _, berthID := range berthIDs {
		berthUtil := []float64{}
		berthMax := 0.0
		berthIdle := 0
		for _, slotStart := range slots {
			// the final partial slot keeps its nominal full duration
			// as denominator
			utilization := SlotUtilizationPct(slotStart, slotStart.Add(slotLen), berthID, occupied)
			report.Data = append(report.Data, BerthSlotRow{
				BerthID:        berthID,
				BerthName:      berthNames[berthID],
				SlotStart:      slotStart,
				UtilizacionPct: round2(utilization),
			})
			berthUtil = append(berthUtil, utilization)
			allUtil = append(allUtil, utilization)
			if utilization > berthMax {
				berthMax = utilization
			}
			if utilization > maxUtil {
				maxUtil = utilization
			}
			if utilization < th.IdleSlotPct {
				berthIdle++
				idleSlots++
			}
		}

		conflicts := countBerthConflicts(occupied, berthID)
		totalConflicts += conflicts

		report.PorAmarradero = append(report.PorAmarradero, BerthGroup{
			BerthID:      berthID,
			BerthName:    berthNames[berthID],
			PromedioPct:  round2(mean(berthUtil)),
			MaximaPct:    round2(berthMax),
			HorasOciosas: round2(float64(berthIdle) * th.SlotHours),
			Conflictos:   conflicts,
		})
	}

	report.KPIs = map[string]float64{
		"utilizacion_promedio_pct": round2(mean(allUtil)),
		"utilizacion_maxima_pct":   round2(maxUtil),
		"horas_ociosas":            round2(float64(idleSlots) * th.SlotHours),
		"conflictos":               float64(totalConflicts),
		"slots":                    float64(len(slots) * len(berthIDs)),
	}
	return report
}

// countBerthConflicts counts distinct pairs of occupancy intervals at the
// same berth whose date ranges overlap. Only intervals inside the requested
// window are compared; conflicts that intersect the window partially keep the
// historical windowed behavior.
func countBerthConflicts(occupied []Interval, berthID string) int {
	own := []Interval{}
	for _, interval := range occupied {
		if interval.Key == berthID {
			own = append(own, interval)
		}
	}
	conflicts := 0
	for i := 0; i < len(own); i++ {
		for j := i + 1; j < len(own); j++ {
			if IntervalsOverlap(own[i].Start, own[i].End, own[j].Start, own[j].End) {
				conflicts++
			}
		}
	}
	return conflicts
}

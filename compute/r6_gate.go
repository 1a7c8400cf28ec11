package compute

import (
	"sort"
	"time"

	"github.com/gbl08ma/sqalx"
	pkgmath "github.com/pkg/math"

	"github.com/FerPaye01/sgcmi-reports/types"
)

// GateSlotRow is one gate's activity during one hour of the requested range
type GateSlotRow struct {
	GateID    string    `msgpack:"portonId" json:"porton_id"`
	GateName  string    `msgpack:"porton" json:"porton"`
	SlotStart time.Time `msgpack:"hora" json:"hora"`
	Vehiculos int       `msgpack:"vehiculos" json:"vehiculos"`
	Pico      bool      `msgpack:"pico" json:"pico"`
}

// GateGroup is the per-gate productivity summary
type GateGroup struct {
	GateID           string  `msgpack:"portonId" json:"porton_id"`
	GateName         string  `msgpack:"porton" json:"porton"`
	Ingresos         int     `msgpack:"ingresos" json:"ingresos"`
	CicloPromedioMin float64 `msgpack:"cicloPromedioMin" json:"ciclo_promedio_min"`
	PctPicos         float64 `msgpack:"pctPicos" json:"pct_picos"`
}

// GateReport is the R6 bundle: gate throughput and cycle times
type GateReport struct {
	Data      []GateSlotRow      `msgpack:"data" json:"data"`
	KPIs      map[string]float64 `msgpack:"kpis" json:"kpis"`
	PorPorton []GateGroup        `msgpack:"porPorton" json:"por_porton"`
}

// GenerateR6 produces the gate productivity report
func GenerateR6(node sqalx.Node, filter *types.ReportFilter, user *types.User, th Thresholds) (*GateReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	node = nodeOrRoot(node)
	return cachedReport("r6", filter, user, th, func() (*GateReport, error) {
		events, err := types.GetGateEventsBetween(node, filter, user)
		if err != nil {
			return nil, err
		}
		return buildGateReport(events, filter.From, filter.To, th), nil
	})
}

func buildGateReport(events []*types.GateEvent, from, to time.Time, th Thresholds) *GateReport {
	report := &GateReport{Data: []GateSlotRow{}, PorPorton: []GateGroup{}}

	// hour slots are aligned to clock hours so Truncate-based counting
	// lands in the right bucket
	slots := BucketRange(from.Truncate(time.Hour), to, time.Hour)
	peakCut := float64(th.GateCapacityPerHour) * th.PeakFraction

	gateNames := map[string]string{}
	entriesPerGateSlot := map[string]map[time.Time]int{}
	perGateEvents := map[string][]*types.GateEvent{}
	totalEntries := 0

	for _, event := range events {
		gateNames[event.GateID] = event.GateName
		perGateEvents[event.GateID] = append(perGateEvents[event.GateID], event)
		if event.Action != types.AccionEntrada {
			continue
		}
		totalEntries++
		slot := event.Timestamp.Truncate(time.Hour)
		if entriesPerGateSlot[event.GateID] == nil {
			entriesPerGateSlot[event.GateID] = map[time.Time]int{}
		}
		entriesPerGateSlot[event.GateID][slot]++
	}

	gateIDs := make([]string, 0, len(gateNames))
	for id := range gateNames {
		gateIDs = append(gateIDs, id)
	}
	sort.Strings(gateIDs)

	activeHours := 0
	peakHours := 0
	allCycles := []float64{}
	maxVehicles := 0

	for _, gateID := range gateIDs {
		gateActive := 0
		gatePeaks := 0
		gateEntries := 0
		for _, slotStart := range slots {
			count := entriesPerGateSlot[gateID][slotStart]
			if count == 0 {
				continue
			}
			gateEntries += count
			maxVehicles = pkgmath.Max(maxVehicles, count)
			peak := float64(count) > peakCut
			report.Data = append(report.Data, GateSlotRow{
				GateID:    gateID,
				GateName:  gateNames[gateID],
				SlotStart: slotStart,
				Vehiculos: count,
				Pico:      peak,
			})
			gateActive++
			activeHours++
			if peak {
				gatePeaks++
				peakHours++
			}
		}

		cycles := gateCycleTimes(perGateEvents[gateID])
		allCycles = append(allCycles, cycles...)

		report.PorPorton = append(report.PorPorton, GateGroup{
			GateID:           gateID,
			GateName:         gateNames[gateID],
			Ingresos:         gateEntries,
			CicloPromedioMin: round2(mean(cycles)),
			PctPicos:         round2(pct(gatePeaks, gateActive)),
		})
	}

	report.KPIs = map[string]float64{
		"total_ingresos":         float64(totalEntries),
		"horas_activas":          float64(activeHours),
		"vehiculos_hora_max":     float64(maxVehicles),
		"ciclo_promedio_min":     round2(mean(allCycles)),
		"picos_vs_capacidad_pct": round2(pct(peakHours, activeHours)),
	}
	return report
}

// gateCycleTimes pairs each ENTRADA with the next SALIDA of the same truck at
// the same gate and returns the cycle lengths in minutes. A SALIDA with no
// preceding ENTRADA is an anomaly and is skipped.
func gateCycleTimes(events []*types.GateEvent) []float64 {
	sorted := make([]*types.GateEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	pending := map[string]time.Time{}
	cycles := []float64{}
	for _, event := range sorted {
		switch event.Action {
		case types.AccionEntrada:
			if _, open := pending[event.TruckPlate]; !open {
				pending[event.TruckPlate] = event.Timestamp
			}
		case types.AccionSalida:
			entered, open := pending[event.TruckPlate]
			if !open {
				dataQuality("porton %s: SALIDA without ENTRADA for truck %s at %s",
					event.GateID, event.TruckPlate, event.Timestamp)
				continue
			}
			cycles = append(cycles, event.Timestamp.Sub(entered).Minutes())
			delete(pending, event.TruckPlate)
		}
	}
	return cycles
}

package compute

import (
	"github.com/FerPaye01/sgcmi-reports/types"
)

// Appointment compliance classifications
const (
	ClasifATiempo = "A_TIEMPO"
	ClasifTarde   = "TARDE"
	ClasifNoShow  = "NO_SHOW"
)

// Turnaround returns the total port hours of a vessel call (ATA to ATD), or
// nil when either timestamp is missing
func Turnaround(call *types.VesselCall) *float64 {
	return DurationHours(call.ATA, call.ATD)
}

// WaitingTime returns the hours a truck waited between its recorded arrival
// and its first ENTRADA gate event, clamped at 0, or nil when the appointment
// has no arrival or no matching entry event. Events need not be sorted.
func WaitingTime(cita *types.Appointment, events []*types.GateEvent) *float64 {
	if cita.Arrival == nil {
		return nil
	}
	var first *types.GateEvent
	for _, event := range events {
		if event.Action != types.AccionEntrada || event.AppointmentID != cita.ID {
			continue
		}
		if first == nil || event.Timestamp.Before(first.Timestamp) {
			first = event
		}
	}
	if first == nil {
		return nil
	}
	hours := DurationHours(cita.Arrival, &first.Timestamp)
	if *hours < 0 {
		// entry recorded before the arrival it should follow
		dataQuality("cita %s: ENTRADA at %s precedes arrival %s, waiting clamped to 0",
			cita.ID, first.Timestamp, *cita.Arrival)
		zero := 0.0
		return &zero
	}
	return hours
}

// Compliance is the result of classifying one appointment. DeviationMin is
// nil for a NO_SHOW; otherwise it is signed (negative = early).
type Compliance struct {
	Clasificacion string
	DeviationMin  *float64
}

// AppointmentCompliance classifies an appointment against the on-time window.
// A deviation of exactly ±window minutes is still on time.
func AppointmentCompliance(cita *types.Appointment, windowMin float64) Compliance {
	if cita.Status == types.CitaNoShow || cita.Arrival == nil {
		return Compliance{Clasificacion: ClasifNoShow}
	}
	deviation := cita.Arrival.Sub(cita.Scheduled).Minutes()
	clasif := ClasifATiempo
	if deviation > windowMin || deviation < -windowMin {
		clasif = ClasifTarde
	}
	return Compliance{Clasificacion: clasif, DeviationMin: &deviation}
}

// CustomsLeadTime returns the hours from tramite start to approval, or nil
// unless the tramite is APROBADO with a recorded end time
func CustomsLeadTime(tramite *types.Tramite) *float64 {
	if tramite.Estado != types.TramiteAprobado {
		return nil
	}
	start := tramite.StartTime
	return DurationHours(&start, tramite.EndTime)
}

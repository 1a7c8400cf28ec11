package resource

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	msgpack "gopkg.in/vmihailenco/msgpack.v2"

	"github.com/gbl08ma/sqalx"
	"github.com/yarf-framework/yarf"

	"github.com/FerPaye01/sgcmi-reports/compute"
	"github.com/FerPaye01/sgcmi-reports/types"
)

type resource struct {
	yarf.Resource
	node sqalx.Node
}

func (r *resource) DecodeRequest(c *yarf.Context, v interface{}) error {
	contentType := c.Request.Header.Get("Content-Type")
	var err error
	switch {
	case strings.Contains(contentType, "msgpack"):
		err = msgpack.NewDecoder(c.Request.Body).Decode(v)
	default:
		err = json.NewDecoder(c.Request.Body).Decode(v)
	}

	if err != nil {
		return &yarf.CustomError{
			HTTPCode:  http.StatusBadRequest,
			ErrorMsg:  "Failed to decode request",
			ErrorBody: err.Error(),
		}
	}
	return nil
}

// RenderData takes a interface{} object and writes the encoded representation of it.
// Encoding used will be idented JSON, non-idented JSON or Msgpack
func RenderData(c *yarf.Context, data interface{}) {
	accept := c.Request.Header.Get("Accept")
	switch {
	case strings.Contains(accept, "json"):
		c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.RenderJSON(data)
	case strings.Contains(accept, "msgpack"):
		RenderMsgpack(c, data)
	default:
		c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.RenderJSONIndent(data)
	}
}

// RenderMsgpack takes a interface{} object and writes the Msgpack encoded string of it.
func RenderMsgpack(c *yarf.Context, data interface{}) {
	c.Response.Header().Set("Content-Type", "application/msgpack")
	encoded, err := msgpack.Marshal(data)
	if err != nil {
		log.Println(err)
		c.Response.Write([]byte(err.Error()))
	} else {
		c.Response.Write(encoded)
	}
}

func badFilter(err error) error {
	return &yarf.CustomError{
		HTTPCode:  http.StatusBadRequest,
		ErrorMsg:  "Invalid report filter",
		ErrorBody: err.Error(),
	}
}

// parseFilter builds the report filter from the query string. The date range
// defaults to the last seven days on the compute clock.
func parseFilter(c *yarf.Context) (*types.ReportFilter, error) {
	query := c.Request.URL.Query()

	now := compute.Clock().Now()
	filter := &types.ReportFilter{
		From: now.AddDate(0, 0, -7),
		To:   now,
	}

	var err error
	if start := query.Get("start"); start != "" {
		filter.From, err = time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, badFilter(err)
		}
	}
	if end := query.Get("end"); end != "" {
		filter.To, err = time.Parse(time.RFC3339, end)
		if err != nil {
			return nil, badFilter(err)
		}
	}

	filter.BerthID = query.Get("amarradero")
	filter.VesselID = query.Get("nave")
	filter.CompanyID = query.Get("empresa")
	filter.GateID = query.Get("porton")
	filter.EntidadID = query.Get("entidad")
	filter.Regimen = query.Get("regimen")
	filter.Estado = query.Get("estado")

	if err := filter.Validate(); err != nil {
		return nil, badFilter(err)
	}
	return filter, nil
}

// filterPayload is the POST body counterpart of the query-string filter, for
// clients replaying saved report configurations
type filterPayload struct {
	Start     string  `json:"start" msgpack:"start"`
	End       string  `json:"end" msgpack:"end"`
	BerthID   string  `json:"amarradero" msgpack:"amarradero"`
	VesselID  string  `json:"nave" msgpack:"nave"`
	CompanyID string  `json:"empresa" msgpack:"empresa"`
	GateID    string  `json:"porton" msgpack:"porton"`
	EntidadID string  `json:"entidad" msgpack:"entidad"`
	Regimen   string  `json:"regimen" msgpack:"regimen"`
	Estado    string  `json:"estado" msgpack:"estado"`
	UmbralH   float64 `json:"umbral" msgpack:"umbral"`
	Capacidad int     `json:"capacidad" msgpack:"capacidad"`
	SlotHoras float64 `json:"slotHoras" msgpack:"slotHoras"`
}

// filter materializes the payload into a validated ReportFilter, with the same
// last-seven-days default range as parseFilter
func (p *filterPayload) filter() (*types.ReportFilter, error) {
	now := compute.Clock().Now()
	filter := &types.ReportFilter{
		From: now.AddDate(0, 0, -7),
		To:   now,
	}

	var err error
	if p.Start != "" {
		if filter.From, err = time.Parse(time.RFC3339, p.Start); err != nil {
			return nil, err
		}
	}
	if p.End != "" {
		if filter.To, err = time.Parse(time.RFC3339, p.End); err != nil {
			return nil, err
		}
	}

	filter.BerthID = p.BerthID
	filter.VesselID = p.VesselID
	filter.CompanyID = p.CompanyID
	filter.GateID = p.GateID
	filter.EntidadID = p.EntidadID
	filter.Regimen = p.Regimen
	filter.Estado = p.Estado

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return filter, nil
}

// thresholds starts from the defaults and applies the payload's overrides
func (p *filterPayload) thresholds() compute.Thresholds {
	th := compute.DefaultThresholds()
	if p.UmbralH > 0 {
		th.DispatchUmbralH = p.UmbralH
	}
	if p.Capacidad > 0 {
		th.GateCapacityPerHour = p.Capacidad
	}
	if p.SlotHoras > 0 {
		th.SlotHours = p.SlotHoras
	}
	return th
}

// requestUser reads the caller context the authorization layer resolved
// upstream. Reports run unscoped when the headers are absent.
func requestUser(c *yarf.Context) *types.User {
	id := c.Request.Header.Get("X-User-Id")
	role := c.Request.Header.Get("X-User-Role")
	if id == "" && role == "" {
		return nil
	}
	return &types.User{
		ID:        id,
		Role:      role,
		CompanyID: c.Request.Header.Get("X-User-Company"),
	}
}

// requestThresholds starts from the defaults and applies the per-request
// overrides the filter input allows
func requestThresholds(c *yarf.Context) compute.Thresholds {
	th := compute.DefaultThresholds()
	query := c.Request.URL.Query()
	if umbral := query.Get("umbral"); umbral != "" {
		if v, err := strconv.ParseFloat(umbral, 64); err == nil && v > 0 {
			th.DispatchUmbralH = v
		}
	}
	if capacity := query.Get("capacidad"); capacity != "" {
		if v, err := strconv.Atoi(capacity); err == nil && v > 0 {
			th.GateCapacityPerHour = v
		}
	}
	if slot := query.Get("slotHoras"); slot != "" {
		if v, err := strconv.ParseFloat(slot, 64); err == nil && v > 0 {
			th.SlotHours = v
		}
	}
	return th
}

package resource

import (
	"github.com/gbl08ma/sqalx"
	"github.com/yarf-framework/yarf"

	"github.com/FerPaye01/sgcmi-reports/compute"
	"github.com/FerPaye01/sgcmi-reports/types"
)

// Report composites resource and serves one report generator, so the twelve
// report endpoints share a single Get implementation
type Report struct {
	resource
	generate func(node sqalx.Node, filter *types.ReportFilter, user *types.User, th compute.Thresholds) (interface{}, error)
}

// WithNode associates a sqalx Node with this resource
func (r *Report) WithNode(node sqalx.Node) *Report {
	r.node = node
	return r
}

// WithGenerator associates a report generator with this resource
func (r *Report) WithGenerator(generate func(node sqalx.Node, filter *types.ReportFilter, user *types.User, th compute.Thresholds) (interface{}, error)) *Report {
	r.generate = generate
	return r
}

// Get serves HTTP GET requests on this resource
func (r *Report) Get(c *yarf.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	bundle, err := r.generate(r.node, filter, requestUser(c), requestThresholds(c))
	if err != nil {
		return err
	}

	RenderData(c, bundle)
	return nil
}

// Post serves HTTP POST requests on this resource. The filter arrives in the
// request body, JSON or msgpack per Content-Type, instead of the query string.
func (r *Report) Post(c *yarf.Context) error {
	var payload filterPayload
	if err := r.DecodeRequest(c, &payload); err != nil {
		return err
	}

	filter, err := payload.filter()
	if err != nil {
		return badFilter(err)
	}

	bundle, err := r.generate(r.node, filter, requestUser(c), payload.thresholds())
	if err != nil {
		return err
	}

	RenderData(c, bundle)
	return nil
}

// Generators maps each report route segment to its generator, wrapped to the
// common signature the Report resource expects
var Generators = map[string]func(node sqalx.Node, filter *types.ReportFilter, user *types.User, th compute.Thresholds) (interface{}, error){
	"r1-programacion": wrap(compute.GenerateR1),
	"r2-turnaround":   wrap(compute.GenerateR2),
	"r3-amarraderos":  wrap(compute.GenerateR3),
	"r4-esperas":      wrap(compute.GenerateR4),
	"r5-cumplimiento": wrap(compute.GenerateR5),
	"r6-portones":     wrap(compute.GenerateR6),
	"r7-tramites":     wrap(compute.GenerateR7),
	"r8-despacho":     wrap(compute.GenerateR8),
	"r9-incidencias":  wrap(compute.GenerateR9),
	"r10-panel":       wrap(compute.GenerateR10),
	"r11-alertas":     wrap(compute.GenerateR11),
	"r12-sla":         wrap(compute.GenerateR12),
}

func wrap[T any](generate func(node sqalx.Node, filter *types.ReportFilter, user *types.User, th compute.Thresholds) (*T, error)) func(node sqalx.Node, filter *types.ReportFilter, user *types.User, th compute.Thresholds) (interface{}, error) {
	return func(node sqalx.Node, filter *types.ReportFilter, user *types.User, th compute.Thresholds) (interface{}, error) {
		return generate(node, filter, user, th)
	}
}

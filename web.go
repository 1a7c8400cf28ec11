package main

import (
	"sort"

	"github.com/yarf-framework/yarf"

	"github.com/FerPaye01/sgcmi-reports/resource"
)

// WebServer sets up and starts the report API
func WebServer() {
	y := yarf.New()

	v1 := yarf.RouteGroup("/v1")

	routes := make([]string, 0, len(resource.Generators))
	for route := range resource.Generators {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	for _, route := range routes {
		v1.Add("/reportes/"+route,
			new(resource.Report).WithNode(rootSqalxNode).WithGenerator(resource.Generators[route]))
	}

	y.AddGroup(v1)
	y.Logger = webLog

	listenAddress, present := secrets.Get("reportListenAddress")
	if !present {
		listenAddress = DefaultListenAddress
	}
	webLog.Println("Report API listening on " + listenAddress)
	y.Start(listenAddress)
}

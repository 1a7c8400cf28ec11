package main

import (
	fcm "github.com/NaySoftware/go-fcm"

	"github.com/FerPaye01/sgcmi-reports/compute"
)

// AlertDispatcher forwards early-warning alerts produced by R11 to the
// operations FCM topic. Delivery and read receipts are FCM's problem.
func AlertDispatcher() {
	for alert := range compute.AlertNotifications {
		SendNotificationForAlert(alert)
	}
}

// SendNotificationForAlert sends a FCM notification for the specified alert
func SendNotificationForAlert(alert compute.Alert) {
	if fcmcl == nil {
		// too soon
		return
	}

	data := map[string]string{
		"id":        alert.ID,
		"tipo":      alert.Tipo,
		"severidad": alert.Severidad,
		"mensaje":   alert.Mensaje,
	}

	mainLog.Println("Sending notification for alert " + alert.ID + ": " + alert.Tipo + " " + alert.Severidad)

	if DEBUG {
		fcmcl.NewFcmMsgTo("/topics/alertas-operaciones-debug", data)
	} else {
		fcmcl.NewFcmMsgTo("/topics/alertas-operaciones", data)
	}

	fcmcl.SetPriority(fcm.Priority_HIGH)
	_, err := fcmcl.Send()
	if err != nil {
		mainLog.Println(err)
	}
}

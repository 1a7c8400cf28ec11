package main

import (
	"log"
	"os"

	fcm "github.com/NaySoftware/go-fcm"
	"github.com/gbl08ma/keybox"
	"github.com/gbl08ma/sqalx"
	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/clockz"

	_ "github.com/lib/pq"

	"github.com/FerPaye01/sgcmi-reports/compute"
)

var (
	rdb           *sqlx.DB
	rootSqalxNode sqalx.Node
	secrets       *keybox.Keybox
	fcmcl         *fcm.FcmClient
	mainLog       = log.New(os.Stdout, "", log.Ldate|log.Ltime)
	webLog        = log.New(os.Stdout, "web", log.Ldate|log.Ltime)

	// GitCommit is provided by govvv at compile-time
	GitCommit = "???"
	// BuildDate is provided by govvv at compile-time
	BuildDate = "???"
)

func main() {
	var err error
	mainLog.Println("Report server starting, opening keybox...")
	secrets, err = keybox.Open(SecretsPath)
	if err != nil {
		mainLog.Fatalln(err)
	}
	mainLog.Println("Keybox opened")

	mainLog.Println("Opening database...")
	databaseURI, present := secrets.Get("databaseURI")
	if !present {
		mainLog.Fatalln("Database connection string not present in keybox")
	}
	rdb, err = sqlx.Open("postgres", databaseURI)
	if err != nil {
		mainLog.Fatalln(err)
	}
	defer rdb.Close()

	err = rdb.Ping()
	if err != nil {
		mainLog.Fatalln(err)
	}
	rootSqalxNode, err = sqalx.New(rdb)
	if err != nil {
		mainLog.Fatalln(err)
	}

	compute.Initialize(rootSqalxNode, mainLog, clockz.RealClock)

	fcmServerKey, present := secrets.Get("fcmServerKey")
	if present {
		fcmcl = fcm.NewFcmClient(fcmServerKey)
	} else {
		mainLog.Println("FCM server key not present in keybox, alert push disabled")
	}

	go AlertDispatcher()
	go StatsSender()

	mainLog.Println("Starting web server...")
	WebServer()
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rulestudio/rulestudio/pkg/configs/server"
	"github.com/rulestudio/rulestudio/pkg/crossvalidation"
	kdb "github.com/rulestudio/rulestudio/pkg/db"
	kpg "github.com/rulestudio/rulestudio/pkg/db/postgres"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
	"github.com/rulestudio/rulestudio/pkg/rulelearn/remote"
	"github.com/rulestudio/rulestudio/pkg/studio"
	"github.com/rulestudio/rulestudio/pkg/utils/echoutil"
	"github.com/rulestudio/rulestudio/pkg/utils/filewatch"
)

func main() {
	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	// read configfile
	conf, err := server.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine, err := remote.New(conf.Engine().URL(), remote.WithTimeout(conf.Engine().Timeout()))
	if err != nil {
		log.Fatalf("rule-learning engine %s is invalid: %s", conf.Engine().URL(), err)
	}

	ctx := context.Background()
	if wait := conf.Engine().ReadinessWait(); 0 < wait {
		err := rulelearn.WaitReady(ctx, engine, time.Second, wait, echoutil.NewLogger("engine", *loglevel))
		if err != nil {
			log.Fatalf("rule-learning engine is not ready: %s", err)
		}
	}

	// get dbaccesor
	db, err := getDBAccesor(ctx, conf.Database())
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer db.Close()

	cvMetrics, err := crossvalidation.NewMetrics(reg)
	if err != nil {
		log.Fatalf("can not register metrics: %s", err)
	}
	calculator := crossvalidation.New(
		engine,
		crossvalidation.WithParallelism(conf.CrossValidation().Parallelism()),
		crossvalidation.WithLogger(echoutil.NewLogger("crossvalidation", *loglevel)),
		crossvalidation.WithMetrics(cvMetrics),
	)

	s := studio.New(
		engine,
		studio.WithArchive(db),
		studio.WithCalculator(calculator),
		studio.WithLogger(echoutil.NewLogger("studio", *loglevel)),
	)
	if err := s.Restore(ctx); err != nil {
		log.Fatalf("can not restore projects: %s", err)
	}
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "rulestudio_projects", Help: "Number of projects in memory."},
		func() float64 { return float64(s.NumberOfProjects()) },
	))

	e, err := newServer(s, *loglevel, conf.AllowOrigins(), reg)
	if err != nil {
		log.Fatalf("can not set up server: %s", err)
	}

	watching, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
	if err != nil {
		log.Fatalf("can not watch configration: %s", err)
	}
	defer cancel()
	context.AfterFunc(watching, func() {
		if context.Cause(watching) == context.Canceled {
			return
		}
		log.Printf("%s. quit to restart server.", context.Cause(watching))
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown by config update: %s", err)
		}
	})

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		err = e.StartTLS(":"+conf.Port(), cert, key)
	} else {
		err = e.Start(":" + conf.Port())
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}

// getDBAccesor connects to the database archiving projects.
//
// Without url, projects are not archived.
func getDBAccesor(ctx context.Context, url string) (kdb.Database, error) {
	if url == "" {
		return kdb.Null(), nil
	}
	return kpg.New(ctx, url)
}

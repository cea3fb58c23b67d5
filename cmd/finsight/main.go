package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/eshaffer321/finsight-go/internal/config"
	"github.com/eshaffer321/finsight-go/internal/report"
	"github.com/eshaffer321/finsight-go/pkg/finsight"
)

func main() {
	var (
		asOf   = flag.String("as-of", "", "analysis date as YYYY-MM-DD (defaults to today)")
		pretty = flag.Bool("pretty", false, "indent the JSON report")
	)
	flag.Parse()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogger(log, cfg.Log)

	if cfg.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize Sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	now := time.Now().UTC()
	if *asOf != "" {
		now, err = time.Parse("2006-01-02", *asOf)
		if err != nil {
			log.WithError(err).Fatal("Invalid -as-of date")
		}
	}

	doc, err := loadDocument(flag.Arg(0))
	if err != nil {
		sentry.CaptureException(err)
		log.WithError(err).Fatal("Failed to load portfolio document")
	}
	log.WithFields(logrus.Fields{
		"accounts":     len(doc.Accounts),
		"transactions": len(doc.Transactions),
		"rules":        len(doc.Rules),
	}).Debug("Loaded portfolio document")

	opts := &report.Options{
		ForecastThreshold:    cfg.Engine.ForecastThreshold,
		MonthEndPolicy:       monthEndPolicy(cfg.Engine.MonthEndPolicy),
		CaseInsensitiveRules: cfg.Engine.CaseInsensitiveRules,
		InsightCap:           cfg.Engine.InsightCap,
	}

	rpt, err := report.Analyze(doc, now, opts)
	if err != nil {
		sentry.CaptureException(err)
		log.WithError(err).Fatal("Analysis failed")
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rpt); err != nil {
		log.WithError(err).Fatal("Failed to write report")
	}
}

// loadDocument reads the portfolio from the given path, or stdin when the
// path is empty or "-".
func loadDocument(path string) (*report.Document, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return report.Load(r)
}

func configureLogger(log *logrus.Logger, cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}

func monthEndPolicy(name string) finsight.MonthEndPolicy {
	if name == "clamp" {
		return finsight.MonthEndClamp
	}
	return finsight.MonthEndRoll
}

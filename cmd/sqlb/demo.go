package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/zipkin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/sllt/sqlbuilder/pkg/sqlb"
	"github.com/sllt/sqlbuilder/pkg/sqlb/config"
	dsql "github.com/sllt/sqlbuilder/pkg/sqlb/datasource/sql"
	"github.com/sllt/sqlbuilder/pkg/sqlb/logging"
	"github.com/sllt/sqlbuilder/pkg/sqlb/metrics"
	"github.com/sllt/sqlbuilder/pkg/sqlb/migration"
)

type demoOptions struct {
	configFile string
	envDir     string
	dryRun     bool
	metrics    bool
	out        io.Writer
}

type demoUser struct {
	ID      int64
	Age     int64
	Name    string
	Address *string
}

func loadConfig(opts demoOptions, logger logging.Logger) (config.Config, error) {
	if opts.configFile != "" {
		return config.NewYAMLFile(opts.configFile)
	}

	return config.NewEnvFile(opts.envDir, logger), nil
}

func runDemo(ctx context.Context, opts demoOptions) error {
	logger := logging.NewLogger(logging.INFO)

	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}

	logger.ChangeLevel(logging.GetLevelFromString(cfg.GetOrDefault("LOG_LEVEL", "INFO")))

	shutdown, err := startTracing(cfg)
	if err != nil {
		return err
	}
	defer shutdown(context.WithoutCancel(ctx))

	ctx, span := otel.Tracer("sqlb").Start(ctx, "demo")
	defer span.End()

	runID := uuid.NewString()
	log := logging.NewContextLogger(ctx, logger)
	log.Infof("demo run %s", runID)

	all := scenarios()
	for _, sc := range all {
		printStatement(opts.out, sc)
	}

	if opts.dryRun {
		return nil
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewManager(reg)

	if err := dsql.RegisterMetrics(m); err != nil {
		return err
	}

	db, err := openDB(cfg, logger, m)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.Run(ctx, db, logger, allMigrations()); err != nil {
		return err
	}

	for _, sc := range all {
		if err := runScenario(ctx, db, opts.out, sc); err != nil {
			return fmt.Errorf("%s: %w", sc.name, err)
		}
	}

	if opts.metrics {
		return printMetrics(opts.out, reg)
	}

	return nil
}

func openDB(cfg config.Config, logger logging.Logger, m dsql.Metrics) (*dsql.DB, error) {
	db, err := dsql.NewSQL(cfg, logger, m)
	if err != nil || db != nil {
		return db, err
	}

	logger.Infof("DB_DIALECT is not set, using in-memory sqlite")

	return dsql.New(&dsql.DBConfig{Dialect: string(sqlb.DialectSQLite)}, logger, m)
}

func startTracing(cfg config.Config) (func(context.Context), error) {
	url := cfg.Get("TRACER_URL")
	if url == "" {
		return func(context.Context) {}, nil
	}

	exporter, err := zipkin.New(url)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) { _ = tp.Shutdown(ctx) }, nil
}

func printStatement(w io.Writer, sc scenario) {
	fmt.Fprintf(w, "%-6s %s\n", sc.name, sc.st.Serialize())
	fmt.Fprintf(w, "%-6s %v\n", "", sc.st.Bindings())
}

func runScenario(ctx context.Context, db *dsql.DB, w io.Writer, sc scenario) error {
	if _, ok := sc.st.(*sqlb.SelectBuilder); ok {
		var users []demoUser

		if err := db.Select(ctx, &users, sc.st); err != nil {
			return err
		}

		fmt.Fprintf(w, "%-6s %d row(s)\n", sc.name, len(users))

		for _, u := range users {
			fmt.Fprintf(w, "%-6s %+v\n", "", u)
		}

		return nil
	}

	res, err := db.Exec(ctx, sc.st)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%-6s %d row(s) affected\n", sc.name, n)

	return nil
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))

	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}

	return nil
}

func rebind(w io.Writer, dialect, query string) error {
	d, err := sqlb.ParseDialect(dialect)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, sqlb.Rebind(d, query))
	fmt.Fprintf(w, "%d placeholder(s)\n", sqlb.CountPlaceholders(query))

	return nil
}

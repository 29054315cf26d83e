package migration

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openclinic/recordkeeper/config"
	"github.com/openclinic/recordkeeper/internal/domain/appointment"
	"github.com/openclinic/recordkeeper/internal/domain/clinicaltest"
	"github.com/openclinic/recordkeeper/internal/domain/diagnosis"
	"github.com/openclinic/recordkeeper/internal/domain/doctor"
	"github.com/openclinic/recordkeeper/internal/domain/patient"
	"github.com/openclinic/recordkeeper/internal/domain/settings"
	"github.com/openclinic/recordkeeper/internal/service"
	"github.com/openclinic/recordkeeper/pkg/metrics"
)

// Engine is the one-time legacy-data migration engine. It detects a
// pre-relational folder/JSON store, snapshots it, and transforms it into
// the normalized schema through the dedup-on-write services. All store
// access goes through the injected handle; the engine holds no entity
// state of its own between stages.
type Engine struct {
	cfg config.DataConfig
	log *zap.Logger

	patients     patient.Repository
	settings     settings.Repository
	doctorSvc    *service.DoctorService
	diagnosisSvc *service.DiagnosisService
	patientSvc   *service.PatientService
	apptSvc      *service.AppointmentService
	testSvc      *service.ClinicalTestService

	onProgress ProgressFunc
	collector  *metrics.Collector
	tracer     trace.Tracer
	now        func() time.Time
}

type Option func(*Engine)

// WithProgress installs a progress observer. Notifications are
// fire-and-forget; a slow observer is the caller's problem.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// WithMetrics wires the prometheus collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// WithClock overrides the timestamp source used for backup naming.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(db *gorm.DB, cfg config.DataConfig, log *zap.Logger, opts ...Option) *Engine {
	patientRepo := patient.NewRepository(db)
	apptRepo := appointment.NewRepository(db)

	e := &Engine{
		cfg:          cfg,
		log:          log,
		patients:     patientRepo,
		settings:     settings.NewRepository(db),
		doctorSvc:    service.NewDoctorService(doctor.NewRepository(db), log),
		diagnosisSvc: service.NewDiagnosisService(diagnosis.NewRepository(db), log),
		patientSvc:   service.NewPatientService(patientRepo, log),
		apptSvc:      service.NewAppointmentService(apptRepo, log),
		testSvc: service.NewClinicalTestService(
			clinicaltest.NewTemplateRepository(db),
			clinicaltest.NewTestRepository(db),
			log,
		),
		tracer: otel.Tracer("migration"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type stage struct {
	label string
	run   func(ctx context.Context, res *Result) error
}

// Run executes the five migration stages in fixed order. It never returns
// an error: fatal failures are folded into the result, and the caller is
// expected to inspect Success. Per-record failures land in Errors and do
// not abort the run.
func (e *Engine) Run(ctx context.Context) (res *Result) {
	res = newResult()
	start := e.now()

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("migration panicked", zap.Any("panic", r))
			res.fail(fmt.Sprintf("migration failed: %v", r))
		}
		e.countRun(res)
	}()

	backupPath, err := e.CreateBackup()
	if err != nil {
		e.log.Error("backup failed, migration aborted", zap.Error(err))
		return res.fail(fmt.Sprintf("backup failed: %v", err))
	}
	res.BackupPath = backupPath
	e.log.Info("legacy data backed up", zap.String("path", backupPath))

	stages := []stage{
		{"Migrating settings", e.migrateSettings},
		{"Migrating patients", e.migratePatients},
		{"Migrating appointments", e.migrateAppointments},
		{"Migrating tests", e.migrateTests},
		{"Finalizing", e.finalize},
	}

	for i, st := range stages {
		e.report(st.label, i+1)

		sctx, span := e.tracer.Start(ctx, "migration."+st.label)
		stageStart := e.now()
		err := st.run(sctx, res)
		e.observeStage(st.label, e.now().Sub(stageStart))
		span.End()

		if err != nil {
			e.log.Error("migration stage failed",
				zap.String("stage", st.label),
				zap.Error(err),
			)
			return res.fail(fmt.Sprintf("%s: %v", st.label, err))
		}
	}

	res.Success = true
	res.Message = "migration completed"
	e.log.Info("migration completed",
		zap.Duration("duration", e.now().Sub(start)),
		zap.Int("doctors", res.Stats.Doctors),
		zap.Int("diagnoses", res.Stats.Diagnoses),
		zap.Int("patients", res.Stats.Patients),
		zap.Int("appointments", res.Stats.Appointments),
		zap.Int("tests", res.Stats.Tests),
		zap.Int("errors", len(res.Errors)),
	)
	return res
}

// finalize is the completion marker stage.
func (e *Engine) finalize(context.Context, *Result) error {
	return nil
}

func (e *Engine) report(label string, stageIdx int) {
	if e.onProgress == nil {
		return
	}
	e.onProgress(Progress{
		Step:    label,
		Stage:   stageIdx,
		Total:   totalStages,
		Percent: stageIdx * 100 / totalStages,
	})
}

func (e *Engine) recordError(res *Result, msg string, err error) {
	full := fmt.Sprintf("%s: %v", msg, err)
	e.log.Warn("migration record skipped", zap.String("record", msg), zap.Error(err))
	res.addError(full)
	if e.collector != nil {
		e.collector.MigrationErrorsTotal.Inc()
	}
}

func (e *Engine) countEntity(kind string) {
	if e.collector != nil {
		e.collector.MigratedEntitiesTotal.WithLabelValues(kind).Inc()
	}
}

func (e *Engine) observeStage(label string, d time.Duration) {
	if e.collector != nil {
		e.collector.StageDuration.WithLabelValues(label).Observe(d.Seconds())
	}
}

func (e *Engine) countRun(res *Result) {
	if e.collector == nil {
		return
	}
	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	e.collector.MigrationRunsTotal.WithLabelValues(outcome).Inc()
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/config"
	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/google/uuid"
)

type fakeEhrPort struct {
	appointments     []domain.Appointment
	rules            []domain.AvailabilityRule
	err              error
	appointmentCalls int
	rulesCalls       int
}

func (f *fakeEhrPort) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) ([]domain.Appointment, error) {
	f.appointmentCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.appointments, nil
}

func (f *fakeEhrPort) GetAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	return nil, nil
}

func (f *fakeEhrPort) GetDoctorAvailabilityRules(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityRule, error) {
	f.rulesCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rules, nil
}

type fakeCachePort struct {
	reports map[string]domain.WeekReport
	rules   map[uuid.UUID][]domain.AvailabilityRule
}

func newFakeCachePort() *fakeCachePort {
	return &fakeCachePort{
		reports: make(map[string]domain.WeekReport),
		rules:   make(map[uuid.UUID][]domain.AvailabilityRule),
	}
}

func reportKey(doctorID uuid.UUID, week domain.WeekKey) string {
	return doctorID.String() + "/" + string(week)
}

func (f *fakeCachePort) GetWeekReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey) (*domain.WeekReport, bool) {
	report, exists := f.reports[reportKey(doctorID, week)]
	if !exists {
		return nil, false
	}
	return &report, true
}

func (f *fakeCachePort) StoreWeekReport(ctx context.Context, doctorID uuid.UUID, report domain.WeekReport) {
	f.reports[reportKey(doctorID, report.Week)] = report
}

func (f *fakeCachePort) InvalidateWeekReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey) {
	delete(f.reports, reportKey(doctorID, week))
}

func (f *fakeCachePort) InvalidateDoctorReports(ctx context.Context, doctorID uuid.UUID) {
	for key := range f.reports {
		delete(f.reports, key)
	}
}

func (f *fakeCachePort) GetAvailabilityRules(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityRule, bool) {
	rules, exists := f.rules[doctorID]
	return rules, exists
}

func (f *fakeCachePort) StoreAvailabilityRules(ctx context.Context, doctorID uuid.UUID, rules []domain.AvailabilityRule) {
	f.rules[doctorID] = rules
}

func (f *fakeCachePort) InvalidateAvailabilityRules(ctx context.Context, doctorID uuid.UUID) {
	delete(f.rules, doctorID)
}

func cacheEnabledConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	return cfg
}

func TestWeekReportKeepsOnlyRequestedWeek(t *testing.T) {
	// Период запроса цепляет соседнюю неделю, отчет — нет
	ehrPort := &fakeEhrPort{appointments: []domain.Appointment{
		mkAppointment(time.Date(2025, 1, 5, 23, 30, 0, 0, time.UTC), domain.AppointmentStatusPending),
		mkAppointment(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), domain.AppointmentStatusConfirmed),
		mkAppointment(time.Date(2025, 1, 7, 14, 0, 0, 0, time.UTC), domain.AppointmentStatusConfirmed),
	}}
	service, _ := newTestService(ehrPort, nil, nil)

	report, _, err := service.WeekReport(context.Background(), uuid.New(), domain.WeekKey("2025-S02"))
	if err != nil {
		t.Fatalf("week report failed: %v", err)
	}

	if len(report.Appointments) != 2 {
		t.Fatalf("expected 2 appointments in 2025-S02, got %d", len(report.Appointments))
	}
	if report.Empty {
		t.Fatalf("report with data must not be empty")
	}
	if report.Statuses.Confirmed != 2 || report.Statuses.Total != 2 {
		t.Fatalf("unexpected statuses: %+v", report.Statuses)
	}
}

func TestWeekReportEmptyWeekIsNotAnError(t *testing.T) {
	service, _ := newTestService(&fakeEhrPort{}, nil, nil)

	report, _, err := service.WeekReport(context.Background(), uuid.New(), domain.WeekKey("2025-S10"))
	if err != nil {
		t.Fatalf("empty week must not error: %v", err)
	}
	if !report.Empty {
		t.Fatalf("expected explicit empty state")
	}
	if report.Appointments == nil || len(report.Appointments) != 0 {
		t.Fatalf("expected empty appointments slice, got %#v", report.Appointments)
	}
}

func TestWeekReportForDateAgreesWithBuckets(t *testing.T) {
	scheduledAt := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	ehrPort := &fakeEhrPort{appointments: []domain.Appointment{
		mkAppointment(scheduledAt, domain.AppointmentStatusPending),
	}}
	service, _ := newTestService(ehrPort, nil, nil)

	report, _, err := service.WeekReportForDate(context.Background(), uuid.New(), scheduledAt)
	if err != nil {
		t.Fatalf("week report failed: %v", err)
	}
	if report.Week != domain.WeekKeyForTime(scheduledAt) {
		t.Fatalf("expected week %s, got %s", domain.WeekKeyForTime(scheduledAt), report.Week)
	}
	if len(report.Appointments) != 1 {
		t.Fatalf("the appointment must land in its own week")
	}
}

func TestWeekReportUsesCache(t *testing.T) {
	ehrPort := &fakeEhrPort{appointments: []domain.Appointment{
		mkAppointment(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), domain.AppointmentStatusPending),
	}}
	service, _ := newTestService(ehrPort, newFakeCachePort(), cacheEnabledConfig())

	doctorID := uuid.New()
	week := domain.WeekKey("2025-S02")

	if _, _, err := service.WeekReport(context.Background(), doctorID, week); err != nil {
		t.Fatalf("week report failed: %v", err)
	}
	if _, _, err := service.WeekReport(context.Background(), doctorID, week); err != nil {
		t.Fatalf("week report failed: %v", err)
	}

	if ehrPort.appointmentCalls != 1 {
		t.Fatalf("expected a single EHR fetch, got %d", ehrPort.appointmentCalls)
	}
}

func TestInvalidateAppointmentReportsDropsWeekEntry(t *testing.T) {
	appointment := mkAppointment(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), domain.AppointmentStatusPending)
	ehrPort := &fakeEhrPort{appointments: []domain.Appointment{appointment}}
	service, _ := newTestService(ehrPort, newFakeCachePort(), cacheEnabledConfig())

	doctorID := uuid.New()
	week := domain.WeekKey("2025-S02")
	ctx := context.Background()

	if _, _, err := service.WeekReport(ctx, doctorID, week); err != nil {
		t.Fatalf("week report failed: %v", err)
	}

	if err := service.InvalidateAppointmentReports(ctx, doctorID, appointment); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	if _, _, err := service.WeekReport(ctx, doctorID, week); err != nil {
		t.Fatalf("week report failed: %v", err)
	}
	if ehrPort.appointmentCalls != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", ehrPort.appointmentCalls)
	}
}

func TestGridReportOrdersCellsAndAppointments(t *testing.T) {
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	late := mkAppointment(monday.Add(9*time.Hour+30*time.Minute), domain.AppointmentStatusPending)
	early := mkAppointment(monday.Add(9*time.Hour), domain.AppointmentStatusPending)
	tuesday := mkAppointment(monday.Add(24*time.Hour+10*time.Hour), domain.AppointmentStatusPending)

	ehrPort := &fakeEhrPort{appointments: []domain.Appointment{tuesday, late, early}}
	service, _ := newTestService(ehrPort, nil, nil)

	cells, _, err := service.GridReport(context.Background(), uuid.New(), domain.WeekKey("2025-S02"), domain.DefaultCalendarOptions(), nil)
	if err != nil {
		t.Fatalf("grid report failed: %v", err)
	}

	if len(cells) != 2 {
		t.Fatalf("expected 2 non-empty cells, got %d", len(cells))
	}
	if cells[0].Day != "lundi" || cells[0].Hour != 9 {
		t.Fatalf("expected (lundi, 9) first, got (%s, %d)", cells[0].Day, cells[0].Hour)
	}
	if cells[1].Day != "mardi" || cells[1].Hour != 10 {
		t.Fatalf("expected (mardi, 10) second, got (%s, %d)", cells[1].Day, cells[1].Hour)
	}
	if cells[0].Appointments[0].ID != early.ID || cells[0].Appointments[1].ID != late.ID {
		t.Fatalf("appointments within a cell must be chronological")
	}
}

func TestStatusReportCountsRange(t *testing.T) {
	monday := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	ehrPort := &fakeEhrPort{appointments: []domain.Appointment{
		mkAppointment(monday, domain.AppointmentStatusCompleted),
		mkAppointment(monday.Add(time.Hour), domain.AppointmentStatusCanceled),
	}}
	service, _ := newTestService(ehrPort, nil, nil)

	counts, err := service.StatusReport(context.Background(), uuid.New(), monday.AddDate(0, 0, -7), monday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("status report failed: %v", err)
	}
	if counts.Total != 2 || counts.Completed != 1 || counts.Canceled != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestBatchStatusReportsFansOut(t *testing.T) {
	monday := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	ehrPort := &fakeEhrPort{appointments: []domain.Appointment{
		mkAppointment(monday, domain.AppointmentStatusPending),
	}}
	service, _ := newTestService(ehrPort, nil, nil)

	doctorIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	result, err := service.BatchStatusReports(context.Background(), doctorIDs, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	if len(result) != len(doctorIDs) {
		t.Fatalf("expected %d entries, got %d", len(doctorIDs), len(result))
	}
	for _, doctorID := range doctorIDs {
		if result[doctorID].Total != 1 {
			t.Fatalf("missing counts for doctor %s", doctorID)
		}
	}
}

func TestBatchStatusReportsPropagatesErrors(t *testing.T) {
	ehrPort := &fakeEhrPort{err: errors.New("ehr is down")}
	service, _ := newTestService(ehrPort, nil, nil)

	_, err := service.BatchStatusReports(context.Background(), []uuid.UUID{uuid.New()}, time.Now(), time.Now())
	if err == nil {
		t.Fatalf("expected error from batch")
	}
}

func TestAvailabilityReportCachesRules(t *testing.T) {
	ehrPort := &fakeEhrPort{rules: []domain.AvailabilityRule{
		mkRule(t, 1, 9, 0, 11, 0, true),
	}}
	service, _ := newTestService(ehrPort, newFakeCachePort(), cacheEnabledConfig())

	doctorID := uuid.New()
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	options := domain.DefaultCalendarOptions()

	if _, err := service.AvailabilityReport(context.Background(), doctorID, start, end, options); err != nil {
		t.Fatalf("availability report failed: %v", err)
	}
	if _, err := service.AvailabilityReport(context.Background(), doctorID, start, end, options); err != nil {
		t.Fatalf("availability report failed: %v", err)
	}

	if ehrPort.rulesCalls != 1 {
		t.Fatalf("expected a single rules fetch, got %d", ehrPort.rulesCalls)
	}
}

func TestAvailableWeeksUseCase(t *testing.T) {
	ehrPort := &fakeEhrPort{appointments: []domain.Appointment{
		mkAppointment(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), domain.AppointmentStatusPending),
		mkAppointment(time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC), domain.AppointmentStatusPending),
	}}
	service, _ := newTestService(ehrPort, nil, nil)

	weeks, _, err := service.AvailableWeeks(context.Background(), uuid.New(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("available weeks failed: %v", err)
	}
	if len(weeks) != 2 || weeks[0] != domain.WeekKey("2025-S02") || weeks[1] != domain.WeekKey("2025-S01") {
		t.Fatalf("unexpected weeks: %v", weeks)
	}
}

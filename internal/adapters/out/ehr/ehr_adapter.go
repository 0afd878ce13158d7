package ehr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nurl "net/url"
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/config"
	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/clinicdesk/schedule-aggregator/internal/core/ports/out"
	"github.com/google/uuid"
)

type EhrAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   out.LoggerPort
}

func NewEhrAdapter(cfg *config.Config, logger out.LoggerPort) *EhrAdapter {
	return &EhrAdapter{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  cfg.Ehr.URL,
		username: cfg.Ehr.Username,
		password: cfg.Ehr.Password,
		logger:   logger,
	}
}

func (a *EhrAdapter) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) ([]domain.Appointment, error) {
	a.logger.Info("ehr.appointments.fetch", out.LogFields{
		"doctorId": doctorID,
	})

	url := fmt.Sprintf("%s/Doctor/%s/$appointments", a.baseURL, doctorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		a.logger.Error("ehr.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	query := nurl.Values{}
	query.Add("begin", startDate.Format("2006-01-02T15:04:05"))
	query.Add("end", endDate.Format("2006-01-02T15:04:05"))
	req.URL.RawQuery = query.Encode()

	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("ehr.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("ehr.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"status":   resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var bundleResponse out.EhrBundleResponse
	if err := json.NewDecoder(resp.Body).Decode(&bundleResponse); err != nil {
		a.logger.Error("ehr.appointments.decode_response_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	appointments := make([]domain.Appointment, 0, len(bundleResponse.Entry))

	// Записи декодируем по одной: одна битая запись пропускается
	// с предупреждением и не срывает выдачу остальных
	for _, entry := range bundleResponse.Entry {
		var appointment domain.Appointment
		if err := json.Unmarshal(entry.Resource, &appointment); err != nil {
			a.logger.Warn("ehr.appointments.decode_resource_skipped", out.LogFields{
				"doctorId": doctorID,
				"error":    err.Error(),
				"resource": string(entry.Resource),
			})
			continue
		}
		appointments = append(appointments, appointment)
	}

	a.logger.Debug("ehr.appointments.fetch_success", out.LogFields{
		"doctorId": doctorID,
		"count":    len(appointments),
	})

	return appointments, nil
}

func (a *EhrAdapter) GetAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	url := fmt.Sprintf("%s/Appointment/%s", a.baseURL, appointmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var appointment domain.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&appointment); err != nil {
		return nil, err
	}

	return &appointment, nil
}

func (a *EhrAdapter) GetDoctorAvailabilityRules(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityRule, error) {
	a.logger.Info("ehr.availability_rules.fetch", out.LogFields{
		"doctorId": doctorID,
	})

	url := fmt.Sprintf("%s/Doctor/%s/$availability", a.baseURL, doctorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		a.logger.Error("ehr.availability_rules.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("ehr.availability_rules.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("ehr.availability_rules.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"status":   resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var bundleResponse out.EhrBundleResponse
	if err := json.NewDecoder(resp.Body).Decode(&bundleResponse); err != nil {
		a.logger.Error("ehr.availability_rules.decode_response_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	rules := make([]domain.AvailabilityRule, 0, len(bundleResponse.Entry))

	for _, entry := range bundleResponse.Entry {
		var rule domain.AvailabilityRule
		if err := json.Unmarshal(entry.Resource, &rule); err != nil {
			a.logger.Warn("ehr.availability_rules.decode_resource_skipped", out.LogFields{
				"doctorId": doctorID,
				"error":    err.Error(),
				"resource": string(entry.Resource),
			})
			continue
		}
		rules = append(rules, rule)
	}

	a.logger.Debug("ehr.availability_rules.fetch_success", out.LogFields{
		"doctorId": doctorID,
		"count":    len(rules),
	})

	return rules, nil
}

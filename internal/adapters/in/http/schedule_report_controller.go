package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/config"
	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/clinicdesk/schedule-aggregator/internal/core/ports/in"
	"github.com/clinicdesk/schedule-aggregator/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ScheduleReportController struct {
	useCase in.ScheduleAggregatorUseCase
	cfg     *config.Config
}

func NewScheduleReportController(useCase in.ScheduleAggregatorUseCase, cfg *config.Config) *ScheduleReportController {
	return &ScheduleReportController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *ScheduleReportController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/doctors/:doctorId/weeks", c.availableWeeks)
		api.GET("/doctors/:doctorId/weeks/:week", c.weekReport)
		api.GET("/doctors/:doctorId/weeks/:week/grid", c.gridReport)
		api.GET("/doctors/:doctorId/week-for-date", c.weekReportForDate)
		api.GET("/doctors/:doctorId/stats", c.statusReport)
		api.GET("/doctors/:doctorId/availability", c.availabilityReport)
		api.POST("/reports/status-batch", c.batchStatusReports)
	}
}

type BatchStatusReportsRequest struct {
	DoctorIDs []uuid.UUID `json:"doctorIds" binding:"required,min=1"`
	StartDate string      `json:"startDate" binding:"required"`
	EndDate   string      `json:"endDate" binding:"required"`
}

// Настройки календаря собираются из конфигурации,
// диапазон часов можно переопределить параметрами запроса
func (c *ScheduleReportController) calendarOptions(ctx *gin.Context) (domain.CalendarOptions, error) {
	options := domain.DefaultCalendarOptions()

	weekStart, err := domain.ParseWeekStart(c.cfg.Calendar.WeekStart)
	if err != nil {
		return options, err
	}

	options.WeekStart = weekStart
	options.WeekdayLabels = c.cfg.Calendar.WeekdayLabels
	options.HourRange = [2]int{c.cfg.Calendar.HourMin, c.cfg.Calendar.HourMax}
	options.SlotSize = time.Duration(c.cfg.Calendar.SlotMinutes) * time.Minute

	if hourMin := ctx.Query("hourMin"); hourMin != "" {
		parsed, err := strconv.Atoi(hourMin)
		if err != nil {
			return options, err
		}
		options.HourRange[0] = parsed
	}
	if hourMax := ctx.Query("hourMax"); hourMax != "" {
		parsed, err := strconv.Atoi(hourMax)
		if err != nil {
			return options, err
		}
		options.HourRange[1] = parsed
	}

	return options, nil
}

// Период по умолчанию: последние 12 недель плюс текущая неделя
func (c *ScheduleReportController) dateRange(ctx *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().In(config.TimeZone)
	startDate := utils.StartCurrentDay(now.AddDate(0, 0, -12*7))
	endDate := utils.StartNextWeek(now)

	if start := ctx.Query("start"); start != "" {
		parsed, err := utils.ParseDate(start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		startDate = parsed
	}
	if end := ctx.Query("end"); end != "" {
		parsed, err := utils.ParseDate(end)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		endDate = parsed
	}

	return startDate, endDate, nil
}

func (c *ScheduleReportController) availableWeeks(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	startDate, endDate, err := c.dateRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weeks, debugInfo, err := c.useCase.AvailableWeeks(ctx.Request.Context(), doctorID, startDate, endDate)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := gin.H{
		"doctorId": doctorID,
		"weeks":    weeks,
	}
	if ctx.Query("debug") == "true" {
		response["debug"] = debugInfo
	}

	ctx.JSON(http.StatusOK, response)
}

func (c *ScheduleReportController) weekReport(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	week, err := domain.ParseWeekKey(ctx.Param("week"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week key format"})
		return
	}

	report, debugInfo, err := c.useCase.WeekReport(ctx.Request.Context(), doctorID, week)
	if err != nil {
		respondError(ctx, err)
		return
	}

	// Неделя без данных отдается как явное пустое состояние, не как ошибка
	response := gin.H{"report": report}
	if ctx.Query("debug") == "true" {
		response["debug"] = debugInfo
	}

	ctx.JSON(http.StatusOK, response)
}

func (c *ScheduleReportController) weekReportForDate(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	date, err := utils.ParseDate(ctx.Query("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	report, debugInfo, err := c.useCase.WeekReportForDate(ctx.Request.Context(), doctorID, date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := gin.H{"report": report}
	if ctx.Query("debug") == "true" {
		response["debug"] = debugInfo
	}

	ctx.JSON(http.StatusOK, response)
}

func (c *ScheduleReportController) gridReport(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	week, err := domain.ParseWeekKey(ctx.Param("week"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week key format"})
		return
	}

	options, err := c.calendarOptions(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Сетку можно сузить до одного дня
	var days []domain.DayLabel
	if day := ctx.Query("day"); day != "" {
		days = []domain.DayLabel{domain.DayLabel(day)}
	}

	cells, debugInfo, err := c.useCase.GridReport(ctx.Request.Context(), doctorID, week, options, days)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := gin.H{
		"doctorId": doctorID,
		"week":     week,
		"cells":    cells,
	}
	if ctx.Query("debug") == "true" {
		response["debug"] = debugInfo
	}

	ctx.JSON(http.StatusOK, response)
}

func (c *ScheduleReportController) statusReport(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	startDate, endDate, err := c.dateRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	counts, err := c.useCase.StatusReport(ctx.Request.Context(), doctorID, startDate, endDate)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"doctorId": doctorID,
		"statuses": counts,
	})
}

func (c *ScheduleReportController) availabilityReport(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	startDate, endDate, err := c.dateRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	options, err := c.calendarOptions(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := c.useCase.AvailabilityReport(ctx.Request.Context(), doctorID, startDate, endDate, options)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"doctorId": doctorID,
		"days":     rows,
	})
}

func (c *ScheduleReportController) batchStatusReports(ctx *gin.Context) {
	var req BatchStatusReportsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date format"})
		return
	}

	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date format"})
		return
	}

	result, err := c.useCase.BatchStatusReports(ctx.Request.Context(), req.DoctorIDs, startDate, endDate)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": result})
}

func (c *ScheduleReportController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1
			passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1
			if usernameMatch && passwordMatch {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}

// Ошибки настроек календаря — ошибка вызова, остальное — ошибка сервера
func respondError(ctx *gin.Context, err error) {
	var configErr *domain.InvalidConfigurationError
	if errors.As(err, &configErr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": configErr.Error()})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

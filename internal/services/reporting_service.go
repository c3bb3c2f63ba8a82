package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"timeledger/internal/domain"
	"timeledger/internal/errors"
	"timeledger/internal/export"
	"timeledger/internal/metrics"
	"timeledger/internal/repository/sqldb"
	"timeledger/internal/validation"
)

const timeOfDayLayout = "15:04:05"

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	repo      sqldb.Repository
	mapper    *domain.Mapper
	validator *validation.ReportValidator
	serviceOptions
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(repo sqldb.Repository, opts ...Option) ReportingService {
	return &reportingServiceImpl{
		repo:           repo,
		mapper:         domain.NewMapper(),
		validator:      validation.NewReportValidator(),
		serviceOptions: newServiceOptions(opts),
	}
}

// ParseReportType resolves a report type name. Empty means "all".
func ParseReportType(s string) (ReportType, error) {
	switch t := ReportType(strings.TrimSpace(s)); t {
	case "":
		return ReportTypeAll, nil
	case ReportTypeAll, ReportTypeByClient, ReportTypeByProject:
		return t, nil
	default:
		return "", errors.NewValidationError("Invalid report type", nil)
	}
}

// ParseDateFilter resolves a date filter name. Empty means "all".
func ParseDateFilter(s string) (DateFilter, error) {
	switch f := DateFilter(strings.TrimSpace(s)); f {
	case "":
		return DateFilterAll, nil
	case DateFilterAll, DateFilterToday, DateFilterThisWeek, DateFilterThisMonth, DateFilterThisYear, DateFilterCustom:
		return f, nil
	default:
		return "", errors.NewValidationError("Invalid date filter", nil)
	}
}

// ParseReportDate reads an RFC 3339 instant or a YYYY-MM-DD date in loc.
// With endOfDay a plain date covers the whole day.
func ParseReportDate(value string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return nil, errors.NewInvalidInputError("date", value, "expected YYYY-MM-DD or RFC 3339")
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return &day, nil
}

// NewReportRequest builds a request from its textual parameters.
// Dates are read in loc and a date-only end covers the whole day.
func NewReportRequest(reportType, dateFilter, startDate, endDate string, loc *time.Location) (ReportRequest, error) {
	rt, err := ParseReportType(reportType)
	if err != nil {
		return ReportRequest{}, err
	}
	filter, err := ParseDateFilter(dateFilter)
	if err != nil {
		return ReportRequest{}, err
	}
	start, err := ParseReportDate(startDate, loc, false)
	if err != nil {
		return ReportRequest{}, err
	}
	end, err := ParseReportDate(endDate, loc, true)
	if err != nil {
		return ReportRequest{}, err
	}
	return ReportRequest{Type: rt, DateFilter: filter, Start: start, End: end}, nil
}

// ResolveWindow turns the date filter of a request into inclusive bounds on entry start times
func (s *reportingServiceImpl) ResolveWindow(req ReportRequest) (*time.Time, *time.Time, error) {
	filter, err := ParseDateFilter(string(req.DateFilter))
	if err != nil {
		return nil, nil, err
	}

	switch filter {
	case DateFilterAll:
		return nil, nil, nil
	case DateFilterCustom:
		if err := s.validator.ValidateWindow(req.Start, req.End); err != nil {
			return nil, nil, validation.ToAppError(err)
		}
		return req.Start, req.End, nil
	}

	from, _ := windowStart(filter, s.now().In(s.config.Location()))
	return &from, nil, nil
}

// GenerateReport loads the user's projects and the entries inside the window and aggregates them
func (s *reportingServiceImpl) GenerateReport(ctx context.Context, userID string, req ReportRequest) (*Report, error) {
	reportType, err := ParseReportType(string(req.Type))
	if err != nil {
		return nil, err
	}
	from, to, err := s.ResolveWindow(req)
	if err != nil {
		return nil, err
	}

	dbProjects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	filter := domain.EntryFilter{From: from, To: to}
	dbEntries, err := s.repo.ListTimeEntries(ctx, userID, s.mapper.EntryFilter.ToDatabase(filter))
	if err != nil {
		return nil, err
	}

	report, err := s.AggregateReport(reportType,
		s.mapper.Project.FromDatabaseSlice(dbProjects),
		s.mapper.TimeEntry.FromDatabaseSlice(dbEntries))
	if err != nil {
		return nil, err
	}
	report.From, report.To = from, to

	metrics.IncrementReportGeneration(string(reportType))
	s.logger.Debug("report generated",
		zap.String("user_id", userID),
		zap.String("type", string(reportType)),
		zap.Int("rows", len(report.Rows)))
	return report, nil
}

// AggregateReport groups entries in one pass. Billing uses each project's current rate;
// entries of a missing project fall into the placeholder bucket with a zero rate.
func (s *reportingServiceImpl) AggregateReport(reportType ReportType, projects []domain.Project, entries []domain.TimeEntry) (*Report, error) {
	reportType, err := ParseReportType(string(reportType))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	report := &Report{Type: reportType, Rows: make([]export.Row, 0)}
	var totalSeconds int64
	var totalBilling float64
	for _, e := range entries {
		_, _, rate, _ := lookupProject(byID, e)
		totalSeconds += e.Seconds
		totalBilling += e.Hours() * rate
	}
	report.Totals = ReportTotals{
		EntryCount: len(entries),
		Hours:      domain.RoundTo2(domain.SecondsToHours(totalSeconds)),
		Billing:    domain.RoundTo2(totalBilling),
	}

	switch reportType {
	case ReportTypeByClient:
		report.Rows = s.byClient(byID, entries)
	case ReportTypeByProject:
		report.Rows = s.byProject(byID, entries)
	default:
		report.Rows = s.allEntries(byID, entries)
	}
	return report, nil
}

func (s *reportingServiceImpl) allEntries(byID map[string]domain.Project, entries []domain.TimeEntry) []export.Row {
	loc := s.config.Location()
	layout := s.config.Time.DisplayFormat

	rows := make([]export.Row, 0, len(entries))
	for _, e := range entries {
		name, client, rate, _ := lookupProject(byID, e)
		row := EntryRow{
			Date:      e.Start().In(loc).Format(layout),
			Client:    client,
			Project:   name,
			StartTime: domain.EntryTypeManual,
			EndTime:   domain.EntryTypeManual,
			Hours:     domain.RoundTo2(e.Hours()),
			Rate:      rate,
			Billing:   domain.RoundTo2(e.Hours() * rate),
			Type:      e.Type(),
		}
		if !e.IsManual {
			row.StartTime = e.Start().In(loc).Format(timeOfDayLayout)
			row.EndTime = e.End().In(loc).Format(timeOfDayLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

type bucket struct {
	key      string
	client   string
	count    int
	seconds  int64
	billing  float64
	rate     float64
	budget   float64
	projects map[string]bool
}

func (s *reportingServiceImpl) byClient(byID map[string]domain.Project, entries []domain.TimeEntry) []export.Row {
	buckets := accumulate(byID, entries, func(_, client string) string { return client })

	rows := make([]export.Row, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, ClientRow{
			Client:     b.key,
			EntryCount: b.count,
			Hours:      domain.RoundTo2(domain.SecondsToHours(b.seconds)),
			Billing:    domain.RoundTo2(b.billing),
		})
	}
	return rows
}

func (s *reportingServiceImpl) byProject(byID map[string]domain.Project, entries []domain.TimeEntry) []export.Row {
	buckets := accumulate(byID, entries, func(name, _ string) string { return name })

	rows := make([]export.Row, 0, len(buckets))
	for _, b := range buckets {
		remaining := b.budget - b.billing
		rows = append(rows, ProjectRow{
			Client:          b.client,
			Project:         b.key,
			EntryCount:      b.count,
			Hours:           domain.RoundTo2(domain.SecondsToHours(b.seconds)),
			Rate:            b.rate,
			Billing:         domain.RoundTo2(b.billing),
			Budget:          domain.RoundTo2(b.budget),
			Remaining:       domain.RoundTo2(remaining),
			RemainingStatus: remainingStatus(remaining),
		})
	}
	return rows
}

// accumulate groups entries by key in a single pass and returns buckets ordered by
// time descending, then key. The budget of each distinct project is counted once.
func accumulate(byID map[string]domain.Project, entries []domain.TimeEntry, keyOf func(name, client string) string) []*bucket {
	index := make(map[string]*bucket)
	order := make([]*bucket, 0)

	for _, e := range entries {
		name, client, rate, budget := lookupProject(byID, e)
		key := keyOf(name, client)

		b, ok := index[key]
		if !ok {
			b = &bucket{key: key, projects: make(map[string]bool)}
			index[key] = b
			order = append(order, b)
		}
		b.count++
		b.seconds += e.Seconds
		b.billing += e.Hours() * rate
		b.rate = rate
		b.client = client
		if !b.projects[e.ProjectID] {
			b.projects[e.ProjectID] = true
			b.budget += budget
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].seconds != order[j].seconds {
			return order[i].seconds > order[j].seconds
		}
		return order[i].key < order[j].key
	})
	return order
}

// lookupProject returns display name, client, rate and budget for an entry's project
func lookupProject(byID map[string]domain.Project, e domain.TimeEntry) (string, string, float64, float64) {
	p, ok := byID[e.ProjectID]
	if !ok {
		return placeholderProject, placeholderClient, 0, 0
	}
	client := p.ClientName
	if client == "" {
		client = placeholderClient
	}
	return p.Name, client, p.HourlyRate, p.Budget
}

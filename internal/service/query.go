package service

import (
	"fmt"
	"time"

	"coachdash/internal/analysis"
	"coachdash/internal/config"
	"coachdash/internal/fitfile"
	"coachdash/internal/store"
)

// FTP sources reported alongside an effective FTP value.
const (
	FTPSourceConfig    = "config"
	FTPSourceEstimated = "estimated"
)

// QueryService answers the read side: activity detail, trend data,
// FTP estimates. All reads hit the local cache, never Drive.
type QueryService struct {
	store   *store.Store
	athlete config.AthleteConfig
}

// NewQueryService creates a new query service.
func NewQueryService(st *store.Store, athleteCfg config.AthleteConfig) *QueryService {
	return &QueryService{
		store:   st,
		athlete: athleteCfg,
	}
}

// GetActivitiesList returns a page of cached activities, newest first.
func (q *QueryService) GetActivitiesList(limit, offset int) ([]store.Activity, error) {
	return q.store.ListActivities(limit, offset)
}

// GetTotalActivityCount returns the number of cached activities.
func (q *QueryService) GetTotalActivityCount() (int, error) {
	return q.store.CountActivities()
}

// LastSyncTime returns when the cache was last refreshed, zero if never.
func (q *QueryService) LastSyncTime() time.Time {
	v, err := q.store.GetSyncState(syncStateLastSync)
	if err != nil || v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ActivityDetail is everything the single-activity screen shows.
type ActivityDetail struct {
	Activity store.Activity
	Summary  analysis.SummaryRow

	Power     *analysis.ColumnStats
	Speed     *analysis.ColumnStats
	HeartRate *analysis.ColumnStats
	Cadence   *analysis.ColumnStats
	Altitude  *analysis.AltitudeStats

	FTPWatts   int
	FTPSource  string
	Zones      []analysis.ZoneTime
	Threshold  *analysis.ThresholdStats
	FTPWkg     float64
	SessionWkg float64
	Calories   float64

	// Downsampled chart columns; nil when the metric is absent.
	PowerChart     []float64
	SpeedChart     []float64
	AltitudeChart  []float64
	HeartRateChart []float64
}

// GetActivityDetail loads one activity and computes its analysis block.
func (q *QueryService) GetActivityDetail(id string) (*ActivityDetail, error) {
	activity, err := q.store.GetActivity(id)
	if err != nil {
		return nil, err
	}

	series, err := q.store.GetSamples(id)
	if err != nil {
		return nil, fmt.Errorf("loading samples for %s: %w", id, err)
	}

	summary, ok := analysis.Summarize(activity.Name, series)
	if !ok {
		// Cached summary without samples; show what we stored.
		summary = analysis.SummaryRow{
			Name:        activity.Name,
			Date:        activity.StartDate,
			DistanceKM:  activity.DistanceKM,
			DurationMin: activity.DurationMin,
		}
	}

	detail := &ActivityDetail{
		Activity: *activity,
		Summary:  summary,
		Altitude: analysis.AnalyzeAltitude(series),
		Calories: analysis.EstimateCalories(q.athlete.WeightKg, summary.DistanceKM),
	}

	if st, ok := analysis.PowerStats(series); ok {
		detail.Power = &st
	}
	if st, ok := analysis.SpeedStats(series); ok {
		detail.Speed = &st
	}
	if st, ok := analysis.HeartRateStats(series); ok {
		detail.HeartRate = &st
	}
	if st, ok := analysis.CadenceStats(series); ok {
		detail.Cadence = &st
	}

	detail.FTPWatts, detail.FTPSource = q.effectiveFTP(series)
	detail.Zones = analysis.TimeInZones(series, detail.FTPWatts)
	detail.Threshold = analysis.ThresholdEffort(series, float64(detail.FTPWatts))
	detail.FTPWkg = analysis.WattsPerKg(float64(detail.FTPWatts), q.athlete.WeightKg)
	if detail.Power != nil {
		detail.SessionWkg = analysis.WattsPerKg(detail.Power.Avg, q.athlete.WeightKg)
	}

	detail.PowerChart = downsample(column(series, func(s fitfile.Sample) *float64 { return s.PowerW }), chartPoints)
	detail.SpeedChart = downsample(column(series, func(s fitfile.Sample) *float64 { return s.SpeedKMH }), chartPoints)
	detail.AltitudeChart = downsample(column(series, func(s fitfile.Sample) *float64 { return s.AltitudeM }), chartPoints)
	detail.HeartRateChart = downsample(column(series, func(s fitfile.Sample) *float64 { return s.HeartRateBPM }), chartPoints)

	return detail, nil
}

// ThresholdRow is one activity's response at threshold power.
type ThresholdRow struct {
	Date            time.Time
	Name            string
	AvgHeartRateBPM float64
	AvgCadenceRPM   float64
	SampleCount     int
}

// TrendReport is everything the trend screen shows.
type TrendReport struct {
	Dataset   analysis.TrendDataset
	FTPWatts  int
	FTPSource string
	FTPWkg    float64

	// Threshold holds one row per activity with a qualifying threshold
	// effort, date ascending. Activities without one are omitted.
	Threshold []ThresholdRow
}

// GetTrendReport builds the cross-activity trend from the cache.
func (q *QueryService) GetTrendReport() (*TrendReport, error) {
	activities, err := q.store.ListActivities(trendBatchSize, 0)
	if err != nil {
		return nil, err
	}

	rows := make([]analysis.SummaryRow, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, analysis.SummaryRow{
			Name:            a.Name,
			Date:            a.StartDate,
			DistanceKM:      a.DistanceKM,
			DurationMin:     a.DurationMin,
			AvgSpeedKMH:     a.AvgSpeedKMH,
			AvgPowerW:       a.AvgPowerW,
			AvgCadenceRPM:   a.AvgCadenceRPM,
			AvgHeartRateBPM: a.AvgHeartRateBPM,
			ElevationGainM:  a.ElevationGainM,
		})
	}

	report := &TrendReport{
		Dataset: analysis.BuildTrend(rows, q.athlete.WeightKg),
	}

	ftp, source, err := q.trendFTP()
	if err != nil {
		return nil, err
	}
	report.FTPWatts = ftp
	report.FTPSource = source
	report.FTPWkg = analysis.WattsPerKg(float64(ftp), q.athlete.WeightKg)

	// Threshold table follows the dataset's chronological order.
	for _, row := range report.Dataset.Rows {
		id := activityIDFor(activities, row)
		if id == "" {
			continue
		}
		series, err := q.store.GetSamples(id)
		if err != nil {
			return nil, fmt.Errorf("loading samples for %s: %w", id, err)
		}
		st := analysis.ThresholdEffort(series, float64(ftp))
		if st == nil {
			continue
		}
		report.Threshold = append(report.Threshold, ThresholdRow{
			Date:            row.Date,
			Name:            row.Name,
			AvgHeartRateBPM: st.AvgHeartRateBPM,
			AvgCadenceRPM:   st.AvgCadenceRPM,
			SampleCount:     st.SampleCount,
		})
	}

	return report, nil
}

// EstimateFTPFromRecent estimates FTP from the n most recent rides with
// power data, ordered by ride date. Returns the default estimate when
// nothing qualifies.
func (q *QueryService) EstimateFTPFromRecent(n int) (int, error) {
	activities, err := q.store.ListRecentWithPower(n)
	if err != nil {
		return 0, err
	}

	// ListRecentWithPower is newest-first; feed the estimator in
	// chronological order.
	series := make([]fitfile.TimeSeries, 0, len(activities))
	for i := len(activities) - 1; i >= 0; i-- {
		ts, err := q.store.GetSamples(activities[i].ID)
		if err != nil {
			return 0, fmt.Errorf("loading samples for %s: %w", activities[i].ID, err)
		}
		series = append(series, ts)
	}

	return analysis.EstimateFTPAcross(series), nil
}

// effectiveFTP resolves the FTP for one ride: config override first,
// otherwise estimate from the ride itself.
func (q *QueryService) effectiveFTP(series fitfile.TimeSeries) (int, string) {
	if q.athlete.FTPWatts > 0 {
		return q.athlete.FTPWatts, FTPSourceConfig
	}
	return analysis.EstimateFTP(series), FTPSourceEstimated
}

// trendFTP resolves the FTP for the trend view: config override first,
// otherwise the multi-ride estimate over the configured window.
func (q *QueryService) trendFTP() (int, string, error) {
	if q.athlete.FTPWatts > 0 {
		return q.athlete.FTPWatts, FTPSourceConfig, nil
	}
	window := q.athlete.FTPWindow
	if window < 1 {
		window = 5
	}
	ftp, err := q.EstimateFTPFromRecent(window)
	if err != nil {
		return 0, "", err
	}
	return ftp, FTPSourceEstimated, nil
}

// activityIDFor maps a trend row back to its cached activity id.
func activityIDFor(activities []store.Activity, row analysis.SummaryRow) string {
	for _, a := range activities {
		if a.Name == row.Name && a.StartDate.Equal(row.Date) {
			return a.ID
		}
	}
	return ""
}

// column extracts one metric as a dense series, nil when absent.
func column(series fitfile.TimeSeries, pick func(fitfile.Sample) *float64) []float64 {
	var out []float64
	for _, s := range series {
		if v := pick(s); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// downsample reduces values to at most n points by averaging buckets,
// keeping chart width independent of ride length.
func downsample(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	if len(values) <= n {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	out := make([]float64, n)
	bucket := float64(len(values)) / float64(n)
	for i := 0; i < n; i++ {
		start := int(float64(i) * bucket)
		end := int(float64(i+1) * bucket)
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

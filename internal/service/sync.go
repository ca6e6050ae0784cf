package service

import (
	"context"
	"fmt"
	"time"

	"coachdash/internal/analysis"
	"coachdash/internal/drive"
	"coachdash/internal/fitfile"
	"coachdash/internal/store"
)

// FileSource is the remote side of a sync: list a folder, fetch a file.
// *drive.Client satisfies it.
type FileSource interface {
	ListFITFiles(ctx context.Context, folderID string) ([]drive.File, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// SyncService pulls ride files from the Drive folder into the local cache.
type SyncService struct {
	source   FileSource
	store    *store.Store
	folderID string
}

// NewSyncService creates a new sync service.
func NewSyncService(source FileSource, st *store.Store, folderID string) *SyncService {
	return &SyncService{
		source:   source,
		store:    st,
		folderID: folderID,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Total           int
	Completed       int
	CurrentActivity string
}

// SyncResult contains the results of a sync operation.
// Per-file problems land in Warnings; they never abort the batch.
type SyncResult struct {
	FilesListed int
	Downloaded  int
	Cached      int // already present, not refetched
	Unusable    int // downloaded but no usable records
	Warnings    []string
}

// SyncAll lists the Drive folder and caches every new ride.
// A listing failure is not fatal: the app keeps serving whatever is
// already cached, so it is reported as a warning and the sync ends.
// Cancellation is honored between activities, never mid-parse.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	files, err := s.source.ListFITFiles(ctx, s.folderID)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("listing folder: %v", err))
		return result, nil
	}
	result.FilesListed = len(files)

	for i, f := range files {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{
				Total:           len(files),
				Completed:       i,
				CurrentActivity: f.Name,
			}
		}

		cached, err := s.store.HasActivity(f.ID)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("checking cache for %s: %v", f.Name, err))
			continue
		}
		if cached {
			result.Cached++
			continue
		}

		data, err := s.source.Download(ctx, f.ID)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("downloading %s: %v", f.Name, err))
			continue
		}

		series := fitfile.Load(data)
		if series.Empty() {
			result.Unusable++
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: no usable records", f.Name))
			continue
		}

		row, ok := analysis.Summarize(f.Name, series)
		if !ok {
			result.Unusable++
			continue
		}

		activity := summaryToActivity(f.ID, row, series)
		if err := s.store.UpsertActivity(activity); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("storing %s: %v", f.Name, err))
			continue
		}
		if err := s.store.SaveSamples(f.ID, series); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("storing samples for %s: %v", f.Name, err))
			continue
		}

		result.Downloaded++
	}

	if progress != nil {
		progress <- SyncProgress{Total: len(files), Completed: len(files)}
	}

	s.store.SetSyncState(syncStateLastSync, time.Now().Format(time.RFC3339))

	return result, nil
}

// summaryToActivity converts a summary row to a store activity
func summaryToActivity(fileID string, row analysis.SummaryRow, series fitfile.TimeSeries) *store.Activity {
	return &store.Activity{
		ID:              fileID,
		Name:            row.Name,
		StartDate:       row.Date,
		SampleCount:     len(series),
		DistanceKM:      row.DistanceKM,
		DurationMin:     row.DurationMin,
		AvgSpeedKMH:     row.AvgSpeedKMH,
		AvgPowerW:       row.AvgPowerW,
		AvgCadenceRPM:   row.AvgCadenceRPM,
		AvgHeartRateBPM: row.AvgHeartRateBPM,
		ElevationGainM:  row.ElevationGainM,
		HasPower:        series.HasPower(),
		FetchedAt:       time.Now(),
	}
}

package service

const (
	// chartPoints is how many points each detail chart is downsampled to.
	chartPoints = 60

	// trendBatchSize caps how many activities feed the trend view.
	trendBatchSize = 500

	// syncStateLastSync is the sync_state key holding the last sync time.
	syncStateLastSync = "last_sync"
)

package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Collection configuration
	CountPerSource int
	Period         string

	// Recommendation configuration
	Epsilon      float64
	DecayRate    float64
	HistoryLimit int

	// Sync configuration
	SyncConcurrency int
	SyncRetryCount  int
	SyncRetryDelay  int
	SyncChunkDelay  int

	// Source credentials
	QiitaToken string
	NewsAPIKey string

	// Summarization configuration
	GeminiAPIKey string
	GeminiModel  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

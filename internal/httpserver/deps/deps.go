package deps

import (
	"time"

	"linkstash/internal/logger"
	"linkstash/internal/pipeline"
	"linkstash/internal/scheduler"
	"linkstash/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Store    store.Store
	Importer *pipeline.Importer
	Exporter *pipeline.Exporter
	Titles   *scheduler.TitleWorker // nil when title fetching is disabled

	AllowedCIDRS []string // IPs allowed to access the /infra endpoint
	TrustProxy   bool     // true if running behind a trusted reverse proxy
}

// Now returns the injected clock, falling back to time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}

// Package health reports database connectivity, as a JSON diagnostics
// document for /test and as a grpc.health.v1 service.
package health

import (
	"context"
	"time"
)

// Probe is implemented by every store client.
type Probe interface {
	Ping(ctx context.Context) error
	Name() string
	Collections(ctx context.Context) ([]string, error)
}

const (
	maxCollections = 10
	maxErrorLen    = 50
	probeTimeout   = 3 * time.Second
)

// Report mirrors the /test response body.
type Report struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type Reporter struct {
	probe   Probe // nil when no store was initialised
	urlSet  bool
	nameSet bool
}

// NewReporter builds a Reporter. urlSet and nameSet tell whether
// DATABASE_URL and DATABASE_NAME were configured.
func NewReporter(probe Probe, urlSet, nameSet bool) *Reporter {
	return &Reporter{probe: probe, urlSet: urlSet, nameSet: nameSet}
}

// Report never fails: every problem is folded into a status string.
func (r *Reporter) Report(ctx context.Context) Report {
	rep := Report{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}
	defer func() {
		rep.DatabaseURL = setOrNot(r.urlSet)
		rep.DatabaseName = setOrNot(r.nameSet)
	}()

	if r.probe == nil {
		rep.Database = "⚠️  Available but not initialized"
		return rep
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := r.probe.Ping(ctx); err != nil {
		rep.Database = "❌ Error: " + truncate(err.Error(), maxErrorLen)
		return rep
	}

	rep.Database = "✅ Connected & Working"
	rep.ConnectionStatus = "Connected"

	names, err := r.probe.Collections(ctx)
	if err != nil {
		rep.Database = "⚠️  Connected but Error: " + truncate(err.Error(), maxErrorLen)
		return rep
	}
	if len(names) > maxCollections {
		names = names[:maxCollections]
	}
	if names != nil {
		rep.Collections = names
	}
	return rep
}

func setOrNot(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package service

import (
	"context"
	"time"
)

// Diagnostic status strings reported by GET /test.
const (
	BackendRunning         = "Running"
	DatabaseNotAvailable   = "Not Available"
	DatabaseWorking        = "Connected & Working"
	DatabaseErrorPrefix    = "Connected but Error: "
	ConnectionConnected    = "Connected"
	ConnectionNotConnected = "Not Connected"
	URLSet                 = "Set"
	URLNotSet              = "Not Set"
)

const (
	maxDiagnosticCollections = 10
	maxDiagnosticErrorLen    = 50
	diagnosticTimeout        = 5 * time.Second
)

// Diagnostics is the store reachability report.
// DatabaseURL and DatabaseName are null when no store is configured.
type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

func (g *recordGateway) Diagnose(ctx context.Context) Diagnostics {
	d := Diagnostics{
		Backend:          BackendRunning,
		Database:         DatabaseNotAvailable,
		ConnectionStatus: ConnectionNotConnected,
		Collections:      []string{},
	}
	if g.store == nil {
		return d
	}

	url := URLNotSet
	if g.urlConfigured {
		url = URLSet
	}
	name := g.store.Name()
	d.DatabaseURL = &url
	d.DatabaseName = &name
	d.ConnectionStatus = ConnectionConnected

	ctx, cancel := context.WithTimeout(ctx, diagnosticTimeout)
	defer cancel()

	if err := g.store.Ping(ctx); err != nil {
		d.Database = DatabaseErrorPrefix + truncate(err.Error(), maxDiagnosticErrorLen)
		return d
	}
	names, err := g.store.ListCollectionNames(ctx)
	if err != nil {
		d.Database = DatabaseErrorPrefix + truncate(err.Error(), maxDiagnosticErrorLen)
		return d
	}
	if len(names) > maxDiagnosticCollections {
		names = names[:maxDiagnosticCollections]
	}
	d.Collections = names
	d.Database = DatabaseWorking
	return d
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

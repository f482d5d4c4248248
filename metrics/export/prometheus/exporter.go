// Package prometheus renders engine metrics in the Prometheus text
// exposition format. The exporter is a plain http.Handler over the
// engine's counter snapshot; a full client library with its registry and
// collector machinery would be a heavy dependency for eleven counters.
package prometheus

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/MrEthical07/authgate"
)

const contentType = "text/plain; version=0.0.4; charset=utf-8"

// Exporter serves GET /metrics for one engine.
type Exporter struct {
	engine    *authgate.Engine
	namespace string
}

// New builds an exporter. namespace defaults to "authgate".
func New(engine *authgate.Engine, namespace string) *Exporter {
	if namespace == "" {
		namespace = "authgate"
	}
	return &Exporter{engine: engine, namespace: namespace}
}

func (e *Exporter) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write([]byte(e.Render()))
}

// Render produces the exposition body. Counters are emitted in sorted
// order so scrapes diff cleanly.
func (e *Exporter) Render() string {
	snap := e.engine.MetricsSnapshot()

	names := make([]string, 0, len(snap.Counters))
	for name := range snap.Counters {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		metric := fmt.Sprintf("%s_%s_total", e.namespace, name)
		fmt.Fprintf(&b, "# TYPE %s counter\n", metric)
		fmt.Fprintf(&b, "%s %d\n", metric, snap.Counters[name])
	}

	dropped := fmt.Sprintf("%s_audit_dropped_total", e.namespace)
	fmt.Fprintf(&b, "# TYPE %s counter\n", dropped)
	fmt.Fprintf(&b, "%s %d\n", dropped, snap.AuditDropped)

	return b.String()
}

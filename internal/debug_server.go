package internal

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const inspectPage = `<!DOCTYPE html>
<html>
<head><title>inspect {{.Prefix}}</title></head>
<body>
<h2>Stats</h2>
<table>
{{range $k, $v := .Stats}}<tr><th align="left">{{$k}}</th><td>{{$v}}</td></tr>
{{end}}</table>
<h2>Keys with prefix "{{.Prefix}}"</h2>
<table>
<tr><th>Key</th><th>Type</th><th>Timestamp</th><th>Detail</th></tr>
{{range .Items}}<tr><td>{{.Key}}</td><td>{{.Type}}</td><td>{{.Timestamp}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
</body>
</html>`

var inspectTemplate = template.Must(template.New("inspect").Parse(inspectPage))

type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// NewDebugHandler serves a read-only HTML view of the badger keys under a prefix,
// chosen with ?prefix= and defaulting to defaultPrefix.
func NewDebugHandler(db *badger.DB, endpoint, defaultPrefix string, mapper RowMapper, statsProvider StatsProvider) http.Handler {
	if mapper == nil {
		mapper = DefaultMapper
	}
	mux := http.NewServeMux()
	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = defaultPrefix
		}

		data := PageData{Prefix: prefix, Stats: make(map[string]any)}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		err := db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				key := string(item.Key())
				if err := item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(key, val))
					return nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = inspectTemplate.Execute(w, data)
	})
	return mux
}

// StartDebugServer listens on port in the background until ctx is done.
func StartDebugServer(ctx context.Context, log *slog.Logger, port int, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Debug inspector available", "url", fmt.Sprintf("http://localhost:%d/inspect", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("Debug inspector stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv
}

// DefaultMapper shows the key namespace and the value size.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
	if namespace, _, ok := strings.Cut(key, ":"); ok {
		row.Type = strings.ToUpper(namespace)
	}
	return row
}

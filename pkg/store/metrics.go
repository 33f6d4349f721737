package store

import (
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitlocal_store_reads_total",
		Help: "Successful key reads.",
	})
	writesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitlocal_store_writes_total",
		Help: "Successful key upserts.",
	})
	deletesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitlocal_store_deletes_total",
		Help: "Successful key deletes.",
	})
	readErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitlocal_store_read_errors_total",
		Help: "Failed or corrupt key reads.",
	})
	writeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitlocal_store_write_errors_total",
		Help: "Failed key writes or deletes.",
	})
	diskBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kitlocal_store_disk_bytes",
		Help: "Best-effort on-disk size of the store directory.",
	})
)

func recordRead()       { readsTotal.Inc() }
func recordWrite()      { writesTotal.Inc() }
func recordDelete()     { deletesTotal.Inc() }
func recordReadError()  { readErrorsTotal.Inc() }
func recordWriteError() { writeErrorsTotal.Inc() }

// RefreshDiskUsage recomputes the on-disk size of the store directory and
// updates the gauge. Best-effort; walk errors are skipped.
func (s *Store) RefreshDiskUsage() uint64 {
	var total uint64
	_ = filepath.WalkDir(s.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		total += uint64(fi.Size())
		return nil
	})
	diskBytes.Set(float64(total))
	return total
}

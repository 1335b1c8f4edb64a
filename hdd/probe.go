package hdd

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"hdlg/logger"
)

// Report is the classification of one device. Err is set when opening or
// probing that device failed; other reports are unaffected.
type Report struct {
	Device   Device
	DiskSize uint64
	APA      bool
	Checksum []byte
	Err      error
}

// Probe opens d, reads its size and APA verdict, and closes it again.
func Probe(ctx context.Context, d Device, log logger.Logger) Report {
	r := Report{Device: d}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}
	h, err := Open(d.Target, d.Model, log)
	if err != nil {
		r.Err = err
		return r
	}
	defer h.Close()

	if r.DiskSize, err = h.DiskSize(); err != nil {
		r.Err = err
		return r
	}
	if r.APA, err = h.IsAPAPartitioned(); err != nil {
		r.Err = err
		return r
	}
	if r.APA {
		r.Checksum, r.Err = h.APAChecksum()
	}
	return r
}

// ProbeAll probes every device, at most limit at a time (no limit when
// limit <= 0). Results keep the order of devices.
func ProbeAll(ctx context.Context, devices []Device, limit int, log logger.Logger) []Report {
	log = logger.OrNop(log)
	reports := make([]Report, len(devices))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, d := range devices {
		i, d := i, d
		g.Go(func() error {
			reports[i] = Probe(ctx, d, log)
			if reports[i].Err != nil {
				log.Warn("probe failed", "target", d.Target, "error", reports[i].Err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

// SortForDisplay moves APA-partitioned devices ahead of the rest, keeping
// relative order otherwise.
func SortForDisplay(reports []Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].APA && !reports[j].APA
	})
}

package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tekutils/tek/errors"
)

// DefaultProgressInterval is how often CopyProgress reports.
const DefaultProgressInterval = time.Second

// progressPrinter periodically replaces the last pushed group of the terminal
// with the copied percentage of dest.
type progressPrinter struct {
	term     *Terminal
	dest     string
	total    int64
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

func (p *progressPrinter) start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			p.print(-1)
			select {
			case <-p.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// print reports the size of dest, or size if it is not negative.
func (p *progressPrinter) print(size int64) {
	if size < 0 {
		info, err := os.Stat(p.dest)
		if err != nil || !info.Mode().IsRegular() {
			return
		}
		size = info.Size()
	}
	percent := 1.0
	if p.total > 0 {
		percent = float64(size) / float64(p.total)
	}
	p.term.Pop(1)
	p.term.Push(fmt.Sprintf("%.2f%% (%s)", percent*100, humanize.IBytes(uint64(size))))
	p.term.Flush()
}

func (p *progressPrinter) finish() {
	close(p.stop)
	p.wg.Wait()
	p.print(p.total)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r ctxReader) Read(b []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(b)
}

// CopyProgress copies the file source to dest while reporting the progress
// on t. If dest is a directory the file keeps its name. A canceled ctx aborts
// the copy and leaves the partial file behind.
func CopyProgress(ctx context.Context, t *Terminal, source, dest string, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	in, err := os.Open(source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot open %s", source)
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot stat %s", source)
	}

	if st, err := os.Stat(dest); err == nil && st.IsDir() {
		dest = filepath.Join(dest, filepath.Base(source))
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot create %s", dest)
	}
	defer out.Close()

	progress := &progressPrinter{
		term:     t,
		dest:     dest,
		total:    info.Size(),
		interval: interval,
		stop:     make(chan struct{}),
	}
	t.Lock()
	t.PushLock()
	progress.start()

	_, copyErr := io.Copy(out, ctxReader{ctx: ctx, r: in})
	if copyErr != nil {
		close(progress.stop)
		progress.wg.Wait()
		t.PopLock()
		t.Flush()
		t.logger.Warn().Err(copyErr).Str("source", source).Str("dest", dest).Msg("Copy interrupted")
		return errors.Wrapf(copyErr, errors.ErrInternal, "copying %s to %s", source, dest)
	}

	progress.finish()
	t.PopLock()
	return t.Flush()
}

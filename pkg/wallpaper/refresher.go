package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wpupdater/wpupdater/util"
)

// Options configures a Refresher.
type Options struct {
	// Sources are the candidate image URLs. Required.
	Sources []string
	// Dir holds the wallpaper_<N> files. Required.
	Dir string
	// CounterFile persists the refresh counter. Empty keeps the counter in memory.
	CounterFile string
	// Platform applies wallpapers and manages startup registration. Required.
	Platform Platform
	// HTTPClient is used for downloads. Nil uses NewHTTPClient.
	HTTPClient *http.Client
	// Pause spaces candidate requests. Zero uses CandidatePause, negative disables pacing.
	Pause time.Duration
	// Log receives activity entries. Nil creates a new bounded log.
	Log *ActivityLog
}

// Status is a point-in-time view of the refresher.
type Status struct {
	Busy          bool      `json:"busy"`
	Counter       int       `json:"counter"`
	AutoUpdate    bool      `json:"auto_update"`
	Interval      string    `json:"interval,omitempty"`
	LastWallpaper string    `json:"last_wallpaper,omitempty"`
	LastSource    string    `json:"last_source,omitempty"`
	LastUpdated   time.Time `json:"last_updated,omitzero"`
	// Failures counts refreshes that failed since the last success.
	Failures int `json:"failures"`
}

type autoLoop struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// Refresher runs the wallpaper refresh pipeline and owns all of its shared state:
// the busy flag, the counter, the activity log and the auto-update loop.
type Refresher struct {
	sources  []string
	files    *FileManager
	counter  *CounterStore
	platform Platform
	fetcher  *Fetcher
	log      *ActivityLog
	busy     *util.SafeFlag
	failures *util.SafeCounter

	// mu guards closed and worker registration. It is never held while waiting.
	mu      sync.Mutex
	closed  bool
	workers sync.WaitGroup

	// loopMu serializes loop start/stop, including the join of a running loop.
	loopMu       sync.Mutex
	loop         *autoLoop
	loopInterval atomic.Int64

	stateMu       sync.Mutex
	lastWallpaper string
	lastSource    string
	lastUpdated   time.Time
	busyListeners []func(bool)
}

// NewRefresher validates opts and builds a Refresher.
func NewRefresher(opts Options) (*Refresher, error) {
	if len(opts.Sources) == 0 {
		return nil, ErrNoSources
	}
	if opts.Dir == "" {
		return nil, errors.New("wallpaper directory is required")
	}
	if opts.Platform == nil {
		return nil, errors.New("platform is required")
	}

	activity := opts.Log
	if activity == nil {
		activity = NewActivityLog(MaxLogEntries)
	}

	pause := opts.Pause
	if pause == 0 {
		pause = CandidatePause
	} else if pause < 0 {
		pause = 0
	}

	files := NewFileManager(opts.Dir)
	if err := files.EnsureDir(); err != nil {
		return nil, err
	}

	return &Refresher{
		sources:  append([]string(nil), opts.Sources...),
		files:    files,
		counter:  LoadCounterStore(opts.CounterFile),
		platform: opts.Platform,
		fetcher:  NewFetcher(opts.HTTPClient, activity, pause),
		log:      activity,
		busy:     util.NewSafeFlag(false),
		failures: util.NewSafeCounter(0),
	}, nil
}

// Log returns the activity log.
func (r *Refresher) Log() *ActivityLog {
	return r.log
}

// IsBusy reports whether a refresh is in flight.
func (r *Refresher) IsBusy() bool {
	return r.busy.Value()
}

// Counter returns the last issued refresh counter.
func (r *Refresher) Counter() int {
	return r.counter.Value()
}

// OnBusyChange registers fn to be called whenever the busy flag flips.
func (r *Refresher) OnBusyChange(fn func(busy bool)) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	r.busyListeners = append(r.busyListeners, fn)
}

// Status returns a snapshot for display.
func (r *Refresher) Status() Status {
	interval := time.Duration(r.loopInterval.Load())

	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	st := Status{
		Busy:          r.IsBusy(),
		Counter:       r.Counter(),
		AutoUpdate:    interval > 0,
		LastWallpaper: r.lastWallpaper,
		LastSource:    r.lastSource,
		LastUpdated:   r.lastUpdated,
		Failures:      r.failures.Value(),
	}
	if interval > 0 {
		st.Interval = interval.String()
	}
	return st
}

// TriggerRefresh starts a refresh on a background worker and returns its counter.
// It returns ErrBusy, without touching the counter, if a refresh is already running.
func (r *Refresher) TriggerRefresh() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrShutdown
	}
	if !r.acquire() {
		r.log.Warnf("A refresh is already in progress")
		return 0, ErrBusy
	}

	counter := r.nextCounter()
	r.workers.Add(1)
	go func() {
		defer r.workers.Done()
		defer r.release()
		_ = r.refresh(context.Background(), counter)
	}()
	return counter, nil
}

// RefreshNow runs one refresh on the calling goroutine.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrShutdown
	}
	if !r.acquire() {
		r.mu.Unlock()
		return ErrBusy
	}
	r.workers.Add(1)
	r.mu.Unlock()

	defer r.workers.Done()
	defer r.release()
	return r.refresh(ctx, r.nextCounter())
}

func (r *Refresher) acquire() bool {
	if !r.busy.TrySet(false, true) {
		return false
	}
	r.notifyBusy(true)
	return true
}

func (r *Refresher) release() {
	r.busy.Set(false)
	r.notifyBusy(false)
}

func (r *Refresher) notifyBusy(busy bool) {
	r.stateMu.Lock()
	listeners := make([]func(bool), len(r.busyListeners))
	copy(listeners, r.busyListeners)
	r.stateMu.Unlock()
	for _, fn := range listeners {
		fn(busy)
	}
}

func (r *Refresher) nextCounter() int {
	n, err := r.counter.Next()
	if err != nil {
		r.log.Warnf("Could not persist counter %d: %v", n, err)
	}
	return n
}

// refresh runs the pipeline for counter. The caller holds the busy flag.
func (r *Refresher) refresh(ctx context.Context, counter int) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("refresh %d panicked: %v", counter, p)
			r.log.Errorf("%v", err)
			r.failures.Increment()
		}
	}()

	r.log.Infof("Changing to wallpaper_%d", counter)
	if err := r.runPipeline(ctx, counter); err != nil {
		r.log.Errorf("Failed to process wallpaper %d: %v", counter, err)
		r.failures.Increment()
		return err
	}
	r.failures.Set(0)
	r.log.Infof("Wallpaper %d applied", counter)
	return nil
}

func (r *Refresher) runPipeline(ctx context.Context, counter int) error {
	candidates := append([]string(nil), r.sources...)
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	data, source, err := r.fetcher.Fetch(ctx, candidates)
	if err != nil {
		return err
	}

	jpegPath, err := r.files.SaveJPEG(counter, data)
	if err != nil {
		return err
	}
	r.log.Infof("Image saved to %s", jpegPath)

	bmpPath, err := r.files.ConvertToBitmap(jpegPath)
	if err != nil {
		return err
	}
	r.log.Infof("Image converted to %s", bmpPath)

	r.apply(bmpPath)

	removed, err := r.files.CleanupStale(counter)
	for _, path := range removed {
		r.log.Infof("Removed old file %s", path)
	}
	if err != nil {
		r.log.Warnf("Cleanup incomplete: %v", err)
	}

	r.stateMu.Lock()
	r.lastWallpaper = bmpPath
	r.lastSource = source
	r.lastUpdated = time.Now()
	r.stateMu.Unlock()
	return nil
}

// apply hands the bitmap to the OS. Every failure here is logged and ignored.
func (r *Refresher) apply(bmpPath string) {
	abs, err := filepath.Abs(bmpPath)
	if err != nil {
		abs = bmpPath
	}

	if err := r.platform.SetWallpaper(abs); err != nil {
		r.log.Warnf("Failed to set wallpaper: %v", err)
	} else {
		r.log.Infof("Wallpaper changed to %s", abs)
	}

	for _, opt := range [][2]string{{StyleOptionKey, StyleFill}, {TileOptionKey, TileOff}} {
		if err := r.platform.SetPersistentOption(opt[0], opt[1]); err != nil {
			r.log.Warnf("Failed to set %s: %v", opt[0], err)
		}
	}
	if err := r.platform.ReloadUserSettings(); err != nil {
		r.log.Warnf("Failed to reload display settings: %v", err)
		return
	}
	r.log.Infof("Wallpaper settings updated")
}

// StartAutoUpdate starts the auto-update loop. If a loop with a different interval is
// running it is replaced; the same interval is a no-op.
func (r *Refresher) StartAutoUpdate(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	if r.isClosed() {
		return ErrShutdown
	}
	if r.loop != nil && r.loop.interval == interval {
		return nil
	}
	r.stopLoop()
	r.startLoop(interval)
	return nil
}

// RestartAutoUpdate stops and joins any running loop, then starts a new one.
func (r *Refresher) RestartAutoUpdate(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	if r.isClosed() {
		return ErrShutdown
	}
	r.stopLoop()
	r.startLoop(interval)
	return nil
}

// StopAutoUpdate stops the loop and waits for it, including any refresh it is running.
func (r *Refresher) StopAutoUpdate() {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	r.stopLoop()
}

// AutoUpdateRunning reports whether the auto-update loop is active.
func (r *Refresher) AutoUpdateRunning() bool {
	return r.loopInterval.Load() > 0
}

func (r *Refresher) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// startLoop requires loopMu.
func (r *Refresher) startLoop(interval time.Duration) {
	l := &autoLoop{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	r.loop = l
	r.loopInterval.Store(int64(interval))
	r.log.Infof("Auto update every %s", interval)
	go r.runLoop(l)
}

// stopLoop requires loopMu. Only loop start/stop callers wait behind it.
func (r *Refresher) stopLoop() {
	l := r.loop
	if l == nil {
		return
	}
	r.loop = nil
	r.loopInterval.Store(0)
	close(l.stop)
	<-l.done
	r.log.Infof("Auto update stopped")
}

func (r *Refresher) runLoop(l *autoLoop) {
	defer close(l.done)

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		if r.acquire() {
			counter := r.nextCounter()
			_ = r.refresh(context.Background(), counter)
			r.release()
		}

		timer.Reset(l.interval)
		select {
		case <-l.stop:
			return
		case <-timer.C:
		}
	}
}

// SetStartupRegistration adds or removes the run-at-login entry.
func (r *Refresher) SetStartupRegistration(enabled bool) error {
	if err := r.platform.SetStartupRegistration(enabled); err != nil {
		r.log.Errorf("Failed to update run at startup: %v", err)
		return err
	}
	if enabled {
		r.log.Infof("Run at startup enabled")
	} else {
		r.log.Infof("Run at startup disabled")
	}
	return nil
}

// IsStartupRegistered reports whether the run-at-login entry exists.
func (r *Refresher) IsStartupRegistered() (bool, error) {
	return r.platform.IsStartupRegistered()
}

// Shutdown stops the auto-update loop and waits for every in-flight refresh.
// Entry points called afterwards return ErrShutdown.
func (r *Refresher) Shutdown() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.StopAutoUpdate()
	r.workers.Wait()
}

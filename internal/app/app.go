package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/plateplay/internal/auth"
	"github.com/abrezinsky/plateplay/internal/backup"
	"github.com/abrezinsky/plateplay/internal/config"
	"github.com/abrezinsky/plateplay/internal/events"
	"github.com/abrezinsky/plateplay/internal/handlers"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/realtime"
	"github.com/abrezinsky/plateplay/internal/repository"
	"github.com/abrezinsky/plateplay/internal/services"
)

const shutdownTimeout = 5 * time.Second

// App holds all application dependencies
type App struct {
	log       logger.Logger
	cfg       *config.Config
	handlers  *handlers.Handlers
	repo      *repository.Repository
	settings  *services.SettingsService
	reviews   *services.ReviewService
	hub       *realtime.Hub
	bridge    *realtime.Bridge
	scheduler *backup.Scheduler
	closers   []func() error
}

// New creates and initializes a new application instance
func New(ctx context.Context, log logger.Logger, cfg *config.Config, templatesFS, staticFS fs.FS, ownerAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.DB)
	if err != nil {
		return nil, err
	}
	a := &App{log: log, cfg: cfg, repo: repo}
	a.closers = append(a.closers, repo.Close)

	// Initialize services
	a.settings = services.NewSettingsService(log, repo)
	boards := services.NewBoardService(log, repo, a.settings)
	a.reviews = services.NewReviewService(log, repo)
	palette := services.NewPaletteService(log, repo)
	plates := services.NewPlateService(log, repo)
	qr := services.NewQRService(log, repo, a.settings)

	// Board updates go to local viewers and, with NATS, to other instances
	a.hub = realtime.New(log, boards.Snapshot)
	var (
		pub events.Publisher
		sub events.Subscriber
	)
	if cfg.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting NATS publisher: %w", err)
		}
		a.closers = append(a.closers, natsPub.Close)
		natsSub, err := events.NewNATSSubscriber(cfg.NATSURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting NATS subscriber: %w", err)
		}
		a.closers = append(a.closers, natsSub.Close)
		pub, sub = natsPub, natsSub
		log.Info("Relaying board updates over NATS", "url", cfg.NATSURL)
	}
	a.bridge = realtime.NewBridge(log, a.hub, pub, sub)
	boards.SetBroadcaster(a.bridge)

	if cfg.BackupEnabled() {
		dests, err := backupDestinations(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.scheduler = backup.NewScheduler(log, repo, dests, cfg.BackupInterval)
	}

	h, err := handlers.New(
		boards,
		a.reviews,
		palette,
		plates,
		a.settings,
		qr,
		templatesFS,
		handlers.NewStaticServer(staticFS),
		ownerAuth,
		a.hub,
		log,
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}
	a.handlers = h

	return a, nil
}

func backupDestinations(ctx context.Context, cfg *config.Config) ([]backup.Destination, error) {
	var dests []backup.Destination
	if cfg.BackupDir != "" {
		d, err := backup.NewFileDestination(cfg.BackupDir)
		if err != nil {
			return nil, err
		}
		dests = append(dests, d)
	}
	if cfg.BackupS3Bucket != "" {
		d, err := backup.NewS3Destination(ctx, cfg.BackupS3Bucket, cfg.BackupS3Key, cfg.BackupS3Region, cfg.BackupS3Endpoint)
		if err != nil {
			return nil, err
		}
		dests = append(dests, d)
	}
	return dests, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases the database and message bus connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run listens on the configured port and serves until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln together with the websocket hub, the
// update bridge, the backup scheduler and review cleanup. It returns when ctx
// is cancelled or any of them fails.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	baseURL := a.initBaseURL(ctx, ln.Addr())
	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Dashboard URL", "url", baseURL+"/dashboard")

	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.hub.Run(gctx) })
	g.Go(func() error { return a.bridge.Run(gctx) })
	if a.scheduler != nil {
		g.Go(func() error { return a.scheduler.Run(gctx) })
	}
	g.Go(func() error { return a.runReviewCleanup(gctx) })
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	a.log.Info("Server stopped")
	return err
}

// initBaseURL stores the configured base URL, or the detected LAN address
// when none was ever set, and returns the URL in effect.
func (a *App) initBaseURL(ctx context.Context, addr net.Addr) string {
	if a.cfg.BaseURL != "" {
		if err := a.settings.SetBaseURL(ctx, a.cfg.BaseURL); err != nil {
			a.log.Warn("Ignoring configured base_url", "base_url", a.cfg.BaseURL, "error", err)
		} else {
			return strings.TrimRight(a.cfg.BaseURL, "/")
		}
	}

	port := ""
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = fmt.Sprintf(":%d", tcp.Port)
	}
	detected := fmt.Sprintf("http://%s%s", getPreferredIP(realNetworkProvider{}), port)
	current, err := a.settings.EnsureBaseURL(ctx, detected)
	if err != nil {
		a.log.Warn("Failed to set default base_url", "error", err)
		return detected
	}
	return current
}

// runReviewCleanup deletes expired reviews on every tick
func (a *App) runReviewCleanup(ctx context.Context) error {
	if a.cfg.ReviewCleanupInterval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(a.cfg.ReviewCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := a.reviews.Cleanup(ctx); err != nil {
				a.log.Warn("Review cleanup failed", "error", err)
			}
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/identity-client/internal/client/client"
	"github.com/dmitrijs2005/identity-client/internal/client/config"
	"github.com/dmitrijs2005/identity-client/internal/client/flows"
	"github.com/dmitrijs2005/identity-client/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/identity-client/internal/client/router"
	"github.com/dmitrijs2005/identity-client/internal/client/services"
	"github.com/dmitrijs2005/identity-client/internal/client/session"
	"github.com/dmitrijs2005/identity-client/internal/filex"
	"github.com/dmitrijs2005/identity-client/internal/logging"
	"github.com/redis/go-redis/v9"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config   *config.Config
	log      logging.Logger
	closeLog func() error

	repo         metadata.Repository
	session      *session.Store
	authService  services.AuthService
	adminService services.AdminService
	nav          *router.Navigator

	login          *flows.Login
	register       *flows.Register
	verify         *flows.VerifyEmail
	changePassword *flows.ChangePassword
	forgotPassword *flows.ForgotPassword
	adminUsers     *flows.AdminUsers
	notify         flows.Notifier

	modeMu sync.RWMutex
	mode   Mode

	reader *bufio.Reader
	out    io.Writer

	closeOnce sync.Once
}

// openRepository opens the session storage selected by cfg.StorageDriver.
func openRepository(ctx context.Context, cfg *config.Config) (metadata.Repository, error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		return metadata.NewRedisRepository(rdb, cfg.RedisKeyPrefix), nil
	default:
		dsn, err := filex.EnsureParentDir(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		db, err := client.InitDatabase(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return metadata.NewSQLiteRepository(db), nil
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, closeLog, err := logging.New(logging.Options{Level: c.LogLevel, Output: c.LogOutput, JSON: c.LogJSON})
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}

	repo, err := openRepository(ctx, c)
	if err != nil {
		log.Error(ctx, "error initializing session storage", "driver", c.StorageDriver, "error", err)
		_ = closeLog()
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, nil, log)

	a := newApp(ctx, c, log, repo, apiClient)
	a.closeLog = closeLog
	return a, nil
}

// newApp wires everything behind the storage and the API client.
func newApp(ctx context.Context, c *config.Config, log logging.Logger, repo metadata.Repository, apiClient *client.HTTPClient) *App {
	store := session.NewStore(repo, log)
	if err := store.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	}

	nav := router.NewNavigator(router.NewGuard(store.IsAuthenticated))

	apiClient.SetTokenSource(store.Token)
	apiClient.OnUnauthorized(services.UnauthorizedHandler(store, func() {
		nav.Redirect(router.RouteLogin)
	}, log))

	as := services.NewAuthService(apiClient, store, log)
	ads := services.NewAdminService(apiClient)
	notify := consoleNotifier{}

	return &App{
		config:         c,
		log:            log,
		closeLog:       func() error { return nil },
		repo:           repo,
		session:        store,
		authService:    as,
		adminService:   ads,
		nav:            nav,
		login:          flows.NewLogin(as, notify, nav),
		register:       flows.NewRegister(as, notify),
		verify:         flows.NewVerifyEmail(as, notify, nav),
		changePassword: flows.NewChangePassword(as, store, notify),
		forgotPassword: flows.NewForgotPassword(as, notify),
		adminUsers:     flows.NewAdminUsers(ads, store, notify, nav, flows.AfterFunc),
		notify:         notify,
		mode:           ModeOnline,
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
	}
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(ctx, "server status changed", "mode", string(mode))
	}
}

// Run starts the status watcher and the REPL, and releases everything when
// the REPL ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close(ctx)

	a.initSignalHandler(ctx, cancel)

	printlnFn("Welcome to the identity CLI (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.StatusCheckInterval)

	a.render(ctx, a.nav.Current())
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(lineSource{a.reader}))
}

// initSignalHandler ends the program on SIGINT, SIGTERM or SIGQUIT. The
// REPL may be blocked on stdin, so the process exits from here once
// everything is closed.
func (a *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		select {
		case <-sigs:
		case <-ctx.Done():
			signal.Stop(sigs)
			return
		}
		cancelFunc()
		printlnFn("\nBye!")
		a.Close(ctx)
		os.Exit(0)
	}()
}

// Close waits for background logouts and closes the storage and the logger.
// Only the first call does anything.
func (a *App) Close(ctx context.Context) {
	a.closeOnce.Do(func() { a.close(ctx) })
}

func (a *App) close(ctx context.Context) {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), services.DefaultLogoutTimeout)
	defer cancel()

	if err := a.authService.Close(closeCtx); err != nil {
		a.log.Warn(ctx, "error closing API client", "error", err)
	}
	if err := a.repo.Close(); err != nil {
		a.log.Warn(ctx, "error closing session storage", "error", err)
	}
	_ = a.closeLog()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// getStatus renders "(<username|anonymous> <route>)" for the prompt.
func (a *App) getStatus() string {
	name := "anonymous"
	if u, ok := a.session.User(); ok {
		name = u.Username
	}
	s := fmt.Sprintf("(%s %s", name, a.nav.Current())
	if a.Mode() == ModeOffline {
		s += " " + string(ModeOffline)
	}
	return s + ")"
}

// checkOnline probes the server once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

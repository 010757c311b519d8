package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/userapp/internal/client/api"
	"github.com/dmitrijs2005/userapp/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// apiClient is the part of api.Client the console uses.
type apiClient interface {
	Ping(ctx context.Context) error
	ListUsers(ctx context.Context) ([]api.User, error)
	GetUser(ctx context.Context, userName string) (*api.User, error)
	AddUser(ctx context.Context, in api.UserInput) (*api.User, error)
	UpdateUser(ctx context.Context, userName string, in api.UserInput) (*api.User, error)
	DeleteUser(ctx context.Context, userName string) (*api.User, error)
	Login(ctx context.Context, userName, password string) (*api.Session, error)
	ListSessions(ctx context.Context) ([]api.Session, error)
}

type App struct {
	config   *config.Config
	api      apiClient
	reader   *bufio.Reader
	out      io.Writer
	userName string
	Mode     Mode
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) Run(ctx context.Context) {
	printlnFn("userctl (type 'help' for commands)")

	a.checkOnline(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

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

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	s += string(a.Mode)
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}

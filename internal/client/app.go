// Package client implements the interactive client application runtime.
//
// It wires the credential store, the mode-selected backend adapter, the
// services, and the session context into a single process lifecycle, and
// drives them from a minimal line-oriented prompt. The prompt is a stand-in
// presentational layer: everything it renders comes out of the session
// context.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nexus-hq/nexus-attendance/internal/adapter"
	"github.com/nexus-hq/nexus-attendance/internal/config"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/internal/service"
	"github.com/nexus-hq/nexus-attendance/internal/session"
	"github.com/nexus-hq/nexus-attendance/internal/store"
	"github.com/nexus-hq/nexus-attendance/models"
)

// App is the assembled client process.
type App struct {
	session     *session.Session
	credentials store.CredentialStore
	mode        adapter.Mode
	logger      *logger.Logger

	in  io.Reader
	out io.Writer
}

// NewApp builds the full dependency graph from cfg. The deployment mode is
// decided here, once, and the matching adapter implementation is injected
// everywhere below.
func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	credentials, err := store.NewSQLiteCredentialStore(context.Background(), cfg.Store, log)
	if err != nil {
		return nil, fmt.Errorf("create credential store: %w", err)
	}

	mode := adapter.SelectMode(cfg.API.BaseURL)

	var backend adapter.BackendAdapter
	switch mode {
	case adapter.ModeRemote:
		backend, err = adapter.NewHTTPBackendAdapter(cfg.API, log)
		if err != nil {
			return nil, fmt.Errorf("create backend adapter: %w", err)
		}
	default:
		backend = adapter.NewFallbackAdapter(adapter.FallbackOptions{
			Profile: func(ctx context.Context) (models.User, bool) {
				_, user, loadErr := credentials.Load(ctx)
				return user, loadErr == nil
			},
		}, log)
	}

	services := service.NewServices(credentials, backend, cfg.App, log)
	sess := session.New(services, cfg.App.RefreshInterval, log)

	log.Info().Str("mode", string(mode)).Msg("client assembled")

	return &App{
		session:     sess,
		credentials: credentials,
		mode:        mode,
		logger:      log,
		in:          os.Stdin,
		out:         os.Stdout,
	}, nil
}

// Run initializes the session and serves the prompt until EOF or "exit".
func (a *App) Run(ctx context.Context) error {
	defer a.session.Close()
	defer a.credentials.Close()

	if err := a.session.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}

	a.printSummary()

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		a.dispatch(ctx, line)
	}
}

func (a *App) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "login":
		err = a.login(ctx, args)
	case "register":
		err = a.register(ctx, args)
	case "logout":
		err = a.session.Logout(ctx)
	case "whoami":
		a.printSummary()
	case "checkin":
		err = a.checkIn(ctx)
	case "checkout":
		err = a.checkOut(ctx, args)
	case "status":
		err = a.status(ctx)
	case "history":
		err = a.history(ctx, args)
	case "users":
		err = a.users(ctx)
	case "stats":
		err = a.stats(ctx)
	case "help":
		fmt.Fprintln(a.out, "commands: login <email> <password> [-remember], register <email> <password> <first> <last>, logout, whoami, checkin, checkout <id>, status, history [limit], users, stats, exit")
	default:
		fmt.Fprintf(a.out, "unknown command %q, try help\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
}

func (a *App) login(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: login <email> <password> [-remember]")
	}

	creds := models.Credentials{
		Email:    args[0],
		Password: args[1],
		Remember: len(args) > 2 && args[2] == "-remember",
	}
	if err := a.session.Login(ctx, creds); err != nil {
		return err
	}

	a.printSummary()
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: register <email> <password> <first-name> <last-name>")
	}

	data := models.RegisterData{
		Email:     args[0],
		Password:  args[1],
		FirstName: args[2],
		LastName:  args[3],
	}
	if err := a.session.Register(ctx, data); err != nil {
		return err
	}

	a.printSummary()
	return nil
}

func (a *App) checkIn(ctx context.Context) error {
	record, err := a.session.CheckIn(ctx, models.CheckInMeta{})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "checked in %s at %s\n", record.ID, record.CheckIn.Format("15:04:05"))
	return nil
}

func (a *App) checkOut(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: checkout <attendance-id>")
	}
	record, err := a.session.CheckOut(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "checked out at %s, %.2f hours\n", record.CheckOut.Format("15:04:05"), *record.TotalHours)
	return nil
}

func (a *App) status(ctx context.Context) error {
	record, err := a.session.TodayStatus(ctx)
	if err != nil {
		return err
	}
	if record == nil {
		fmt.Fprintln(a.out, "no record for today")
		return nil
	}
	fmt.Fprintf(a.out, "%s since %s (%s)\n", record.Status, record.CheckIn.Format("15:04:05"), record.ID)
	return nil
}

func (a *App) history(ctx context.Context, args []string) error {
	limit := 30
	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("limit must be a number")
		}
		limit = parsed
	}

	records, err := a.session.History(ctx, limit, 0)
	if err != nil {
		return err
	}
	for _, r := range records {
		out := "-"
		if r.CheckOut != nil {
			out = r.CheckOut.Format("15:04")
		}
		fmt.Fprintf(a.out, "%s  %s  %s -> %s  %s\n", r.ID, r.CheckIn.Format("2006-01-02"), r.CheckIn.Format("15:04"), out, r.Status)
	}
	return nil
}

func (a *App) users(ctx context.Context) error {
	users, err := a.session.Users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s  %s %s  %s  %s\n", u.ID, u.FirstName, u.LastName, u.Email, u.Role)
	}
	return nil
}

func (a *App) stats(ctx context.Context) error {
	stats, err := a.session.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "users: %d, active today: %d, checked in now: %d\n", stats.TotalUsers, stats.ActiveToday, stats.CheckedInNow)
	return nil
}

func (a *App) printSummary() {
	state := a.session.State()
	switch {
	case state.IsLoading:
		fmt.Fprintln(a.out, "session loading")
	case state.IsAuthenticated:
		fmt.Fprintf(a.out, "signed in as %s %s <%s> (%s mode)\n", state.User.FirstName, state.User.LastName, state.User.Email, a.mode)
	default:
		fmt.Fprintf(a.out, "not signed in (%s mode)\n", a.mode)
	}
}

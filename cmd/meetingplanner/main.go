// @title Meeting Planner API
// @version 1.0
// @description Single-owner meeting schedule with overlap checks, reminders and day exports.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from POST /auth/token.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"meetingplanner/config"
	_ "meetingplanner/docs"
	"meetingplanner/internal/adapters/auth"
	"meetingplanner/internal/adapters/calendar"
	"meetingplanner/internal/adapters/email"
	"meetingplanner/internal/delivery/console"
	httpdelivery "meetingplanner/internal/delivery/http"
	"meetingplanner/internal/delivery/http/controllers"
	"meetingplanner/internal/domain"
	"meetingplanner/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	hashPassword := flag.Bool("hash-password", false, "read a password and print its bcrypt hash for API_PASSWORD_HASH")
	flag.Parse()

	if *hashPassword {
		if err := printPasswordHash(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Keep stdout for the menu when the console is on.
	logOut := io.Writer(os.Stdout)
	if cfg.ConsoleEnabled {
		logOut = os.Stderr
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel, logOut)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, stop, cfg, logger); err != nil {
		logger.Error("meetingplanner stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stop context.CancelFunc, cfg *config.Config, logger *slog.Logger) error {
	loc := time.Local
	store := services.NewMeetingStore(services.WithLocation(loc))

	export := services.NewExportService(store, map[domain.ExportFormat]domain.ScheduleFormatter{
		domain.ExportFormatText: calendar.NewTextFormatter(loc),
		domain.ExportFormatICS:  calendar.NewICSFormatter(),
	}, logger)
	imp := services.NewImportService(store, calendar.NewICSDecoder(), logger)

	out := console.NewSyncWriter(os.Stdout)
	notifier, err := buildNotifier(cfg, out, loc, logger)
	if err != nil {
		return err
	}
	poller := services.NewReminderPoller(store, notifier, cfg.ReminderPollInterval, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return poller.Run(ctx)
	})

	if cfg.HTTPEnabled {
		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           buildRouter(cfg, store, export, imp, loc, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("http server listening", "addr", srv.Addr, "auth", cfg.AuthEnabled())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			logger.Info("shutting down http server")
			return srv.Shutdown(shutdownCtx)
		})
	}

	if cfg.ConsoleEnabled {
		menu := console.NewMenu(console.Config{
			Store:     store,
			Export:    export,
			Import:    imp,
			Fetcher:   calendar.NewHTTPFetcher(&http.Client{Timeout: 30 * time.Second}),
			In:        os.Stdin,
			Out:       out,
			Location:  loc,
			ExportDir: cfg.ExportDir,
			Logger:    logger,
		})
		g.Go(func() error {
			err := menu.Run(ctx)
			// Leaving the menu ends the program.
			stop()
			return err
		})
	}

	return g.Wait()
}

// buildNotifier always prints reminders to the terminal and adds email
// delivery when REMINDER_EMAIL_TO is set.
func buildNotifier(cfg *config.Config, out io.Writer, loc *time.Location, logger *slog.Logger) (domain.ReminderNotifier, error) {
	targets := []domain.ReminderNotifier{services.NewWriterNotifier(out, loc)}

	if cfg.Email.ReminderTo != "" {
		mailer, err := email.NewMailer(email.MailerConfig{
			Provider:    cfg.Email.Provider,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			SES: email.SESConfig{
				Region:             cfg.Email.AWSRegion,
				AccessKeyID:        cfg.Email.AWSAccessKeyID,
				SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
				InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
			},
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("email: %w", err)
		}
		emails := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
		targets = append(targets, services.NewEmailNotifier(emails, cfg.Email.ReminderTo, loc))
	}

	return services.NewMultiNotifier(logger, targets...), nil
}

func buildRouter(cfg *config.Config, store domain.MeetingStore, export domain.ExportService, imp domain.ImportService, loc *time.Location, logger *slog.Logger) http.Handler {
	routerCfg := httpdelivery.RouterConfig{
		Meetings:       controllers.NewMeetingController(logger, store, export, imp, loc),
		Health:         controllers.NewHealthController(store),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}
	if cfg.AuthEnabled() {
		hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
		authSvc := services.NewAuthService(hasher, auth.NewJWTIssuer(cfg.JWTSecret), cfg.APIPasswordHash, cfg.JWTExpiry)
		routerCfg.Auth = controllers.NewAuthController(logger, authSvc)
		routerCfg.Verifier = auth.NewJWTVerifier(cfg.JWTSecret)
	} else {
		logger.Warn("JWT_SECRET is not set; the HTTP API is unauthenticated")
	}
	return httpdelivery.NewRouter(routerCfg)
}

// printPasswordHash reads a password (without echo on a terminal) and writes its bcrypt hash.
func printPasswordHash(in *os.File, out io.Writer) error {
	var password string
	if term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(out, "Password: ")
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := auth.NewBcryptHasher(bcrypt.DefaultCost).Hash(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}

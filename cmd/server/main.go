package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/permithq/tenantgate/authn"
	"github.com/permithq/tenantgate/authn/statestore"
	"github.com/permithq/tenantgate/fga"
	"github.com/permithq/tenantgate/internal/config"
	"github.com/permithq/tenantgate/orgs"
	"github.com/permithq/tenantgate/sessions"
	"github.com/permithq/tenantgate/server"
	"github.com/permithq/tenantgate/users"

	orggormrepo "github.com/permithq/tenantgate/orgs/gormrepo"
	sessiongormrepo "github.com/permithq/tenantgate/sessions/gormrepo"
	usergormrepo "github.com/permithq/tenantgate/users/gormrepo"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New: %w", err)
	}
	displayAppname(c.GetAppName())

	db, err := openDatabase(c)
	if err != nil {
		return err
	}

	states, err := openStateStore(c)
	if err != nil {
		return err
	}

	var fgaClient *fga.Client
	if fgaURL := c.GetFGAAPIURL(); fgaURL != "" {
		fgaClient = fga.NewClient(fgaURL)
	}

	repos := server.Repos{
		Orgs:     orggormrepo.New(db),
		Users:    usergormrepo.New(db),
		Sessions: sessiongormrepo.New(db),
	}

	srv, err := server.New(c, repos, states, fgaClient)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func openDatabase(c config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.GetDatabaseDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	if err := db.AutoMigrate(&orgs.OrgAuthConfig{}, &users.User{}, &sessions.UserSession{}); err != nil {
		return nil, fmt.Errorf("db.AutoMigrate: %w", err)
	}
	return db, nil
}

func openStateStore(c config.Config) (authn.StateRepo, error) {
	opts, err := redis.ParseURL(c.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}
	return statestore.NewRedisRepo(redis.NewClient(opts), c.GetRedisTimeout()), nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

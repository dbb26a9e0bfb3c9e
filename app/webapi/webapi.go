// Package webapi provides a web API for the spam detector, a liveness probe
// plus a check endpoint to classify a message without sending it to telegram.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/hemanth-attr/groupguard/lib/guard/spamcheck"
)

//go:generate moq --out mocks/detector.go --pkg mocks --with-resets --skip-ensure . Detector

// Server is a web API server
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version    string   // version to show in app info
	ListenAddr string   // listen address
	Detector   Detector // spam detector
	AuthPasswd string   // basic auth password for user "groupguard"
	Dbg        bool     // debug mode
}

// Detector is a spam detector interface
type Detector interface {
	Check(req spamcheck.Request) (spam bool, cr []spamcheck.Response)
}

// NewServer creates a new web API server
func NewServer(config Config) *Server {
	return &Server{Config: config}
}

// Run starts the server and blocks until the context is canceled
func (s *Server) Run(ctx context.Context) error {
	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()))
	router.Use(rest.AppInfo("groupguard", "hemanth-attr", s.Version), rest.Ping)
	router.Use(tollbooth.HTTPMiddleware(tollbooth.NewLimiter(50, nil)))
	router.Use(rest.SizeLimit(1024 * 1024)) // 1M max request size

	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
		router.Use(rest.BasicAuthWithPrompt("groupguard", s.AuthPasswd))
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	router.HandleFunc("POST /check", s.checkHandler)

	srv := &http.Server{Addr: s.ListenAddr, Handler: router, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

// checkHandler runs the detector on the posted message and returns the verdict
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Msg      string `json:"msg"`
		ChatID   int64  `json:"chat_id"`
		UserID   int64  `json:"user_id"`
		UserName string `json:"user_name"`
	}{}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "can't decode request")
		return
	}

	spam, cr := s.Detector.Check(spamcheck.Request{
		Msg:      req.Msg,
		ChatID:   req.ChatID,
		UserID:   req.UserID,
		UserName: req.UserName,
		Meta:     spamcheck.MetaData{Classifier: true},
	})
	rest.RenderJSON(w, struct {
		Spam   bool                 `json:"spam"`
		Checks []spamcheck.Response `json:"checks"`
	}{Spam: spam, Checks: cr})
}

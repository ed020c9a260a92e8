package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/rankit/boundary"
	"github.com/rushteam/rankit/core"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommend, search and discover over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           a.routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server_started", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				a.logger.Info("server_stopping")
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// routes 注册 POST /v1/recommend、/v1/search、/v1/discover；开启指标时注册 GET /metrics。
func (a *app) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/recommend", a.handle(func(ctx context.Context, raw map[string]any, explain bool) (boundary.Envelope, error) {
		req, err := boundary.ParseRecommend(raw, time.Now())
		if err != nil {
			return boundary.Envelope{}, err
		}
		p, err := a.engine.Recommend(ctx, req)
		if err != nil {
			return boundary.Envelope{}, err
		}
		return boundary.Recommendation(p, boundary.Options{Explain: explain}), nil
	}))
	mux.HandleFunc("POST /v1/search", a.handle(func(ctx context.Context, raw map[string]any, explain bool) (boundary.Envelope, error) {
		req, err := boundary.ParseSearch(raw, time.Now())
		if err != nil {
			return boundary.Envelope{}, err
		}
		p, err := a.engine.Search(ctx, req)
		if err != nil {
			return boundary.Envelope{}, err
		}
		return boundary.Search(p, boundary.Options{Explain: explain}), nil
	}))
	mux.HandleFunc("POST /v1/discover", a.handle(func(ctx context.Context, raw map[string]any, explain bool) (boundary.Envelope, error) {
		req, err := boundary.ParseDiscover(raw, time.Now())
		if err != nil {
			return boundary.Envelope{}, err
		}
		p, err := a.engine.Discover(ctx, req)
		if err != nil {
			return boundary.Envelope{}, err
		}
		return boundary.Discover(p, boundary.Options{Explain: explain}), nil
	}))
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics.Handler())
	}
	return mux
}

type handlerFunc func(ctx context.Context, raw map[string]any, explain bool) (boundary.Envelope, error)

func (a *app) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := map[string]any{}
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err == nil && len(body) > 0 {
			err = json.Unmarshal(body, &raw)
		}
		if err != nil {
			a.respond(w, boundary.Failure(core.InvalidInput(core.ModuleRequest, "malformed JSON body")), http.StatusBadRequest)
			return
		}

		env, err := fn(r.Context(), raw, r.URL.Query().Get("explain") == "true")
		if err != nil {
			a.respond(w, boundary.Failure(err), boundary.HTTPStatus(err))
			return
		}
		a.respond(w, env, http.StatusOK)
	}
}

func (a *app) respond(w http.ResponseWriter, env boundary.Envelope, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		a.logger.Warn("write_response_failed", "error", err)
	}
}

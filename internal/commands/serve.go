package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akasprzok/pulse/internal/server"
)

// ServeCmd serves rendered charts over HTTP.
type ServeCmd struct {
	SourceFlags
	FeedFlags

	Addr    string        `name:"addr" help:"Listen address." default:":8080" env:"PULSE_ADDR"`
	Mode    string        `name:"mode" help:"Chart one subject or compare many." default:"multi" enum:"single,multi"`
	Refresh time.Duration `name:"refresh" help:"Reload samples from the source at this interval. Zero loads once." default:"0s"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	src, err := s.Source(ctx)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Source: src,
		Mode:   parseMode(s.Mode),
		Logger: ctx.logger(),
	})
	if err := s.reload(runCtx, ctx, srv); err != nil {
		return err
	}
	if s.Refresh > 0 {
		go s.refreshLoop(runCtx, ctx, srv)
	}
	if ch := startFeeds(runCtx, ctx, s.Feeds(ctx)); ch != nil {
		go srv.Follow(runCtx, ch)
	}

	return srv.Run(runCtx, s.Addr)
}

func (s *ServeCmd) reload(c context.Context, ctx *Context, srv *server.Server) error {
	if ctx.Timeout > 0 {
		var cancel context.CancelFunc
		c, cancel = context.WithTimeout(c, ctx.Timeout)
		defer cancel()
	}
	return srv.Load(c)
}

func (s *ServeCmd) refreshLoop(c context.Context, ctx *Context, srv *server.Server) {
	ticker := time.NewTicker(s.Refresh)
	defer ticker.Stop()
	for {
		select {
		case <-c.Done():
			return
		case <-ticker.C:
			src, err := s.Source(ctx)
			if err != nil {
				ctx.logger().Error("rebuilding source failed", "error", err)
				continue
			}
			srv.SetSource(src)
			if err := s.reload(c, ctx, srv); err != nil {
				ctx.logger().Error("refreshing samples failed", "error", err)
			}
		}
	}
}

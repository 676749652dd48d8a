package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	reuseport "github.com/kavu/go_reuseport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maxleiko/bsc/client"
	"github.com/maxleiko/bsc/internal/env"
	"github.com/maxleiko/bsc/protocol"
	"github.com/maxleiko/bsc/stats"
)

var (
	// The host to listen on
	serveHost string

	// The port to listen for http requests on
	servePort string
)

func init() {
	flags := ServeCmd.Flags()

	flags.StringVar(&serveHost, "host", "0.0.0.0", "The host to listen on")
	flags.StringVarP(&servePort, "port", "p", "8300", "The port to listen to HTTP requests on")
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve beanstalkd statistics over HTTP",
	Long: `Serve beanstalkd statistics over HTTP as JSON.

Routes
	GET /ping
	GET /stats
	GET /tubes
	GET /tubes/:name/stats
	GET /jobs/:id/stats
`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
		defer signalStop()

		log, err := env.MakeLogger(verbose)
		if err != nil {
			return err
		}

		fileLimit, err := setFileLimit()
		if err != nil {
			return err
		}

		log.Info("Set file limit", zap.Uint64("fileLimit", fileLimit))

		router := setupRouter(config.DebugHTTP, log)

		// Ping test
		router.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		api := &statsAPI{
			opts: client.Options{Addr: addr, DialTimeout: dialTimeout, Log: log},
			log:  log.Named("api"),
		}

		router.GET("/stats", api.serverStats)
		router.GET("/tubes", api.tubes)
		router.GET("/tubes/:name/stats", api.tubeStats)
		router.GET("/jobs/:id/stats", api.jobStats)

		ln, err := reuseport.Listen("tcp", net.JoinHostPort(serveHost, servePort))
		if err != nil {
			return err
		}

		s := &http.Server{
			Handler: router,
		}

		// Serving in a goroutine so that it won't block the graceful
		// shutdown handling below
		go func() {
			if err := s.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
			}
		}()

		log.Info("Listening",
			zap.String("host", serveHost),
			zap.String("port", servePort),
			zap.String("beanstalkd", addr))

		// Listen for the interrupt signal.
		<-ctx.Done()

		// Restore default behavior on the interrupt signal and notify user of shutdown.
		signalStop()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if err := s.Shutdown(ctx); err != nil {
			log.Error("Http server forced to shutdown", zap.Error(err))
		}

		api.close()

		log.Info("Exiting")
		return nil
	},
}

// statsAPI proxies statistics requests to a beanstalkd server over a
// single shared connection.
type statsAPI struct {
	opts client.Options

	mu   sync.Mutex
	conn *client.Conn

	log *zap.Logger
}

func (api *statsAPI) withConn(ctx context.Context, fn func(ctx context.Context, c *client.Conn) error) error {
	api.mu.Lock()
	defer api.mu.Unlock()

	if api.conn == nil {
		if err := api.dial(ctx); err != nil {
			return err
		}
	}

	err := fn(ctx, api.conn)
	if err == nil || streamIntact(err) {
		return err
	}

	// The reply stream is gone or out of step. Drop the connection and
	// retry once on a fresh one.
	api.drop()

	if err := api.dial(ctx); err != nil {
		return err
	}

	return fn(ctx, api.conn)
}

func (api *statsAPI) dial(ctx context.Context) error {
	conn := client.New(api.opts)

	if err := conn.Connect(ctx); err != nil {
		return err
	}

	api.conn = conn

	return nil
}

func (api *statsAPI) drop() {
	if api.conn == nil {
		return
	}

	if err := api.conn.Close(); err != nil {
		api.log.Warn("Closing broken connection", zap.Error(err))
	}

	api.conn = nil
}

func (api *statsAPI) close() {
	api.mu.Lock()
	defer api.mu.Unlock()

	api.drop()
}

// streamIntact reports whether the connection survived the error: the
// server refused the command but request and reply stayed in step.
func streamIntact(err error) bool {
	var serr *client.ServerError

	return errors.Is(err, client.ErrNotFound) || errors.As(err, &serr)
}

func (api *statsAPI) fail(c *gin.Context, err error) {
	if errors.Is(err, client.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	api.log.Error("Upstream request failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func (api *statsAPI) serverStats(c *gin.Context) {
	var doc protocol.Map

	err := api.withConn(c.Request.Context(), func(ctx context.Context, conn *client.Conn) error {
		m, err := conn.Stats(ctx)
		doc = m

		return err
	})
	if err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats.ServerFromDoc(doc))
}

func (api *statsAPI) tubes(c *gin.Context) {
	var names []string

	err := api.withConn(c.Request.Context(), func(ctx context.Context, conn *client.Conn) error {
		l, err := conn.ListTubes(ctx)
		if err != nil {
			return err
		}

		names = make([]string, len(l))
		for i, s := range l {
			names[i] = s.String()
		}

		return nil
	})
	if err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, names)
}

func (api *statsAPI) tubeStats(c *gin.Context) {
	name := c.Param("name")
	if !protocol.ValidName(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tube name"})
		return
	}

	var doc protocol.Map

	err := api.withConn(c.Request.Context(), func(ctx context.Context, conn *client.Conn) error {
		m, err := conn.StatsTube(ctx, name)
		doc = m

		return err
	})
	if err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats.TubeFromDoc(doc))
}

func (api *statsAPI) jobStats(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	var doc protocol.Map

	err = api.withConn(c.Request.Context(), func(ctx context.Context, conn *client.Conn) error {
		m, err := conn.StatsJob(ctx, id)
		doc = m

		return err
	})
	if err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats.JobFromDoc(doc))
}

func setupRouter(debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - Logs to stdout.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/ping"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	return r
}

func setFileLimit() (uint64, error) {
	var rLimit syscall.Rlimit

	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	rLimit.Cur = rLimit.Max
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	return rLimit.Cur, nil
}

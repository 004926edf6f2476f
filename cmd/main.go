package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"water_heater/internal/config"
	"water_heater/internal/handlers"
	"water_heater/internal/logger"
	"water_heater/internal/metrics"
	"water_heater/internal/mqtt"
	"water_heater/internal/remote"
	"water_heater/internal/repository"
	"water_heater/internal/repository/db"
	"water_heater/internal/server"
	"water_heater/internal/service"

	"github.com/spf13/cobra"
)

const (
	shutdownTimeout  = 10 * time.Second
	heartbeatTimeout = 2 * time.Minute
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "water-heater",
	Short:        "Supervisory controller for a cloud-connected water heater",
	Long:         "Runs the boost schedule against the heater's remote API, exposes manual overrides over HTTP and keeps an audit log.",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduling loop and the HTTP API (default)",
	RunE:  runServe,
}

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Run one control cycle and print the controller state as JSON",
	RunE:  runHeartbeat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/config.yml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(heartbeatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the wired dependencies shared by both commands.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *sql.DB
	metrics  *metrics.Metrics
	sim      *remote.Simulator
	pub      mqtt.Publisher
	services *service.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)

	sqlDB, err := openDB(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}

	a := &app{cfg: cfg, log: log, db: sqlDB, metrics: metrics.NewMetrics()}

	heater := a.newRemote()

	thermoCfg, err := cfg.ThermoConfig()
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	thermoCfg.Metrics = a.metrics
	thermoCfg.Log = log
	if a.pub = newPublisher(cfg, log); a.pub != nil {
		thermoCfg.Publisher = a.pub
	}

	repos := repository.NewRepository(sqlDB)
	a.services = service.NewService(repos, heater, thermoCfg, service.AuthConfig{
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
	})
	return a, nil
}

func (a *app) close() {
	if a.pub != nil {
		_ = a.pub.Close()
	}
	if err := a.db.Close(); err != nil {
		a.log.Errorw("failed to close sqlite", "err", err)
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening database", "path", cfg.DB.Path)
	return db.InitDB(cfg.DB.Path)
}

func (a *app) newRemote() service.RemoteHeater {
	if a.cfg.Remote.Driver == config.DriverHTTP {
		a.log.Infow("remote_http", "base_url", a.cfg.Remote.BaseURL, "gateway", a.cfg.Remote.Gateway)
		return remote.NewHTTPClient(a.cfg.Remote.BaseURL, a.cfg.Remote.Gateway, a.cfg.Remote.Token, a.cfg.Remote.Timeout)
	}
	a.log.Infow("remote_simulator", "gateway", a.cfg.Remote.Gateway, "start_temp_c", a.cfg.Simulator.StartTempC)
	a.sim = remote.NewSimulator(a.cfg.Remote.Gateway, a.cfg.Simulator.StartTempC, a.log)
	return a.sim
}

// newPublisher returns nil when no broker is configured or it cannot be reached.
func newPublisher(cfg *config.Config, log *logger.Logger) mqtt.Publisher {
	if cfg.MQTT.Broker == "" {
		return nil
	}
	pub, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.TopicPrefix)
	if err != nil {
		log.Warnw("mqtt_disabled", "broker", cfg.MQTT.Broker, "err", err)
		return nil
	}
	log.Infow("mqtt_connected", "broker", cfg.MQTT.Broker, "prefix", cfg.MQTT.TopicPrefix)
	return pub
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.sim != nil {
		go a.sim.Run(ctx, a.cfg.Simulator.Tick)
	}
	workerDone := a.services.Worker.Start(ctx, a.cfg.Heater.Interval)

	apiHandler := handlers.NewHandler(a.services, a.metrics.Handler(), a.log)
	srv := &server.Server{}
	runHTTPServer(srv, a.cfg.Port, apiHandler, a.log)

	waitForShutdown(cancel, srv, a.log)
	waitForWorker(workerDone, heartbeatTimeout, a.log)
	return nil
}

// waitForWorker blocks until an in-flight heartbeat has finished, so the
// database and the broker connection are still open while it records.
func waitForWorker(done <-chan struct{}, timeout time.Duration, log *logger.Logger) {
	select {
	case <-done:
	case <-time.After(timeout):
		log.Warnw("worker_shutdown_timeout", "timeout", timeout.String())
	}
}

func runHeartbeat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), heartbeatTimeout)
	defer cancel()

	hbErr := a.services.Thermo.Heartbeat(ctx)

	out, err := json.MarshalIndent(a.services.Thermo.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return hbErr
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Infow("shutting down server...", "signal", sig.String())

	// stop the scheduling loop at its next wait and the simulator
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

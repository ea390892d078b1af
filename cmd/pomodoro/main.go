package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/pomodoro/app"
	"github.com/lixenwraith/pomodoro/audio"
	"github.com/lixenwraith/pomodoro/clock"
	"github.com/lixenwraith/pomodoro/config"
	"github.com/lixenwraith/pomodoro/core"
	"github.com/lixenwraith/pomodoro/metrics"
	"github.com/lixenwraith/pomodoro/notify"
	"github.com/lixenwraith/pomodoro/render"
	"github.com/lixenwraith/pomodoro/timer"
)

var (
	logDir      = "logs"
	logFileName = "pomodoro.log"
)

const maxLogSize = 10 * 1024 * 1024 // 10MB

var (
	configFlag  = flag.String("config", "", "Config file (default $POMODORO_CONFIG or ~/.config/pomodoro/config.yaml)")
	minutesFlag = flag.Int("minutes", -1, "Countdown minutes, overrides config")
	secondsFlag = flag.Int("seconds", -1, "Countdown seconds, overrides config")
	plainFlag   = flag.Bool("plain", false, "Print one line per tick instead of the terminal UI, starts immediately")
	debugFlag   = flag.Bool("debug", false, "Write debug log to logs/pomodoro.log")
	muteFlag    = flag.Bool("mute", false, "Disable the alarm sound")

	writeConfigFlag = flag.Bool("write-config", false, "Write the effective settings to the config file and exit")
)

// setupLogging routes the standard logger to a rotated file when debug is on.
// Otherwise all logging is discarded; it never goes to stdout/stderr.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("pomodoro-%s.log", time.Now().Format("20060102-150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			log.SetOutput(io.Discard)
			return nil
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}

func resolveConfigPath() string {
	if *configFlag != "" {
		return *configFlag
	}
	if p := os.Getenv(config.EnvConfig); p != "" {
		return p
	}
	p, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return p
}

func main() {
	flag.Parse()
	os.Exit(run())
}

// run executes the program and returns the exit code once every deferred
// cleanup (audio, metrics, log file) has run
func run() int {
	// Panic Recovery: Ensure terminal is reset even if the main goroutine panics
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}
	if *minutesFlag >= 0 {
		cfg.Timer.Minutes = *minutesFlag
	}
	if *secondsFlag >= 0 {
		cfg.Timer.Seconds = *secondsFlag
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}
	if *debugFlag {
		cfg.Log.Debug = true
	}
	if cfg.Log.Dir != "" {
		logDir = cfg.Log.Dir
	}

	if *writeConfigFlag {
		if err := writeConfig(cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "Write config: %v\n", err)
			return 1
		}
		fmt.Printf("Wrote %s\n", path)
		return 0
	}

	if logFile := setupLogging(cfg.Log.Debug); logFile != nil {
		defer logFile.Close()
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		log.Printf("pomodoro: %s %s", bi.Main.Path, bi.Main.Version)
	}
	log.Printf("pomodoro: starting %d:%02d, tick %v", cfg.Timer.Minutes, cfg.Timer.Seconds, cfg.Timer.TickInterval)

	// Audio degrades to silent on any failure
	player, err := audio.NewPlayer(cfg.PlayerConfig())
	if err != nil {
		log.Printf("pomodoro: sound resource: %v (using bell)", err)
	}
	if player != nil {
		if err := player.Init(); err != nil {
			log.Printf("pomodoro: audio init failed: %v (continuing without audio)", err)
		}
		defer player.Close()
	}

	collector := metrics.NewCollector()
	defer func() {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Printf("pomodoro: metrics textfile: %v", err)
		}
	}()

	if *plainFlag {
		return runPlain(cfg, player, collector)
	}

	if err := runInteractive(cfg, player, collector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}
	return 0
}

// writeConfig saves the effective settings, flags and environment included
func writeConfig(cfg *config.Config, path string) error {
	if path == "" {
		return fmt.Errorf("no config path: pass -config or set %s", config.EnvConfig)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.Save(path)
}

func runInteractive(cfg *config.Config, player *audio.Player, collector *metrics.Collector) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	core.RegisterTerminal(screen)
	// Normal exit terminal cleanup
	defer func() {
		core.RegisterTerminal(nil)
		screen.Fini()
	}()

	sched := clock.NewReal()
	var sound app.Sound
	if player != nil {
		sound = player
	}
	ctrl := app.New(screen, sound)

	alarm := notify.NewAlarm(sched, alarmPlayer(player), ctrl, cfg.Timer.AlertDelay)
	defer alarm.Close()

	engine := timer.New(sched,
		timer.WithSink(timer.Sinks{ctrl, collector}),
		timer.WithNotifier(notify.Multi{alarm, collector}),
		timer.WithObserver(ctrl),
		timer.WithObserver(collector),
		timer.WithTickInterval(cfg.Timer.TickInterval),
		timer.WithMessage(cfg.Timer.Message),
	)
	if err := engine.Configure(cfg.Timer.Minutes, cfg.Timer.Seconds); err != nil {
		return err
	}
	ctrl.Bind(engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = ctrl.Run(ctx)
	if engine.Phase() == timer.PhaseRunning {
		engine.Stop()
	}
	return err
}

// runPlain counts down once without the terminal UI and exits after the alert
func runPlain(cfg *config.Config, player *audio.Player, collector *metrics.Collector) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	line := render.NewLine(os.Stdout, isTerminal(os.Stdout))
	sched := clock.NewReal()

	alerted := make(chan struct{})
	alerter := notify.AlerterFunc(func(msg string) {
		line.Alert(msg)
		close(alerted)
	})
	alarm := notify.NewAlarm(sched, alarmPlayer(player), alerter, cfg.Timer.AlertDelay)
	defer alarm.Close()

	engine := timer.New(sched,
		timer.WithSink(timer.Sinks{line, collector}),
		timer.WithNotifier(notify.Multi{alarm, collector}),
		timer.WithObserver(collector),
		timer.WithTickInterval(cfg.Timer.TickInterval),
		timer.WithMessage(cfg.Timer.Message),
	)
	if err := engine.Configure(cfg.Timer.Minutes, cfg.Timer.Seconds); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid duration: %v\n", err)
		return 1
	}
	if err := engine.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Nothing to count down: %v\n", err)
		return 1
	}

	select {
	case <-ctx.Done():
		engine.Stop()
		fmt.Fprintln(os.Stdout)
		return 0
	case <-alerted:
	}

	// Let the alarm finish before the speaker closes
	if player != nil && player.Played() > 0 {
		if rest := player.AlarmDuration() - cfg.Timer.AlertDelay; rest > 0 {
			select {
			case <-time.After(rest):
			case <-ctx.Done():
			}
		}
	}
	return 0
}

// alarmPlayer avoids handing notify a typed nil
func alarmPlayer(p *audio.Player) notify.Player {
	if p == nil {
		return nil
	}
	return p
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

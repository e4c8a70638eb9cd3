package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gliderlabs/ssh"
	"golang.org/x/term"

	"github.com/stlalpha/vgaterm/internal/config"
	"github.com/stlalpha/vgaterm/internal/console"
	"github.com/stlalpha/vgaterm/internal/feed"
	"github.com/stlalpha/vgaterm/internal/logging"
	"github.com/stlalpha/vgaterm/internal/remote"
	"github.com/stlalpha/vgaterm/internal/render"
	"github.com/stlalpha/vgaterm/internal/snapshot"
	"github.com/stlalpha/vgaterm/internal/sshserver"
	"github.com/stlalpha/vgaterm/internal/telnetserver"
	"github.com/stlalpha/vgaterm/internal/terminalio"
	"github.com/stlalpha/vgaterm/internal/vga"
	"github.com/stlalpha/vgaterm/internal/viewer"
)

const repaintInterval = 100 * time.Millisecond

// session is the display and console every command works on.
type session struct {
	cfg     config.Config
	con     *console.Shared
	mapping *vga.Mapping // nil for in-process memory
}

func openSession(g globalFlags) (*session, error) {
	logging.EnableFromEnv()
	if *g.debug {
		logging.DebugEnabled = true
	}

	cfg, err := config.Load(*g.configDir)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	var mem vga.Memory
	switch cfg.Display.Backing {
	case config.BackingMmap:
		m, err := vga.Map(cfg.Display.Path, cfg.Display.Offset)
		if err != nil {
			return nil, fmt.Errorf("map display memory: %w", err)
		}
		log.Printf("INFO: Display memory mapped from %s at offset %#x", cfg.Display.Path, cfg.Display.Offset)
		s.mapping = m
		mem = m
	default:
		mem = vga.NewBuffer()
	}

	c := console.New(mem)
	c.SetMode(cfg.ModeFlag())
	// A mapped display is shared with other processes and keeps its content.
	if s.mapping == nil {
		c.Clear()
	}
	s.con = console.NewShared(c)
	logging.Debug("Console ready: mode=%s backing=%s", c.Mode(), cfg.Display.Backing)
	return s, nil
}

func (s *session) Close() error {
	if s.mapping == nil {
		return nil
	}
	if err := s.mapping.Sync(); err != nil {
		log.Printf("WARN: Failed to sync display memory: %v", err)
	}
	return s.mapping.Close()
}

// start returns a context cancelled on SIGINT/SIGTERM and launches the
// snapshot scheduler when it is enabled.
func (s *session) start() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if s.cfg.Snapshot.Enabled {
		sched := snapshot.NewScheduler(s.cfg.Snapshot, s.con, s.cfg.Render.TrimRight)
		go func() {
			if err := sched.Start(ctx); err != nil {
				log.Printf("ERROR: Snapshot scheduler: %v", err)
			}
		}()
	}
	return ctx, cancel
}

func (s *session) baud(override int) int {
	if override >= 0 {
		return override
	}
	return s.cfg.Feed.Baud
}

// printScreen writes the final grid to stdout, styled when stdout is a
// terminal and color is enabled.
func (s *session) printScreen() {
	snap := s.con.Snapshot()
	if s.cfg.Render.Color && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(render.Styled(nil, snap))
		return
	}
	fmt.Print(render.Text(snap, s.cfg.Render.TrimRight))
}

// runViewer shows the interactive viewer until the user quits or ctx ends.
func (s *session) runViewer(ctx context.Context, live bool) error {
	p := tea.NewProgram(viewer.New(s.con, nil, live), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func cmdRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	g := addGlobalFlags(fs)
	baud := fs.Int("baud", -1, "Bits per second (default from config, 0 = unthrottled)")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("render needs at least one file (- for stdin)")
	}

	s, err := openSession(g)
	if err != nil {
		return err
	}
	defer s.Close()
	ctx, cancel := s.start()
	defer cancel()

	for _, name := range fs.Args() {
		if err := replayFile(ctx, s, name, s.baud(*baud)); err != nil {
			return err
		}
	}
	s.printScreen()
	return nil
}

func replayFile(ctx context.Context, s *session, name string, baud int) error {
	var src io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		defer f.Close()
		src = f
	}
	n, err := feed.Replay(ctx, s.con, src, baud)
	logging.Debug("Replayed %d bytes from %s", n, name)
	if err != nil {
		return fmt.Errorf("replay %s: %w", name, err)
	}
	return nil
}

func cmdTail(args []string) error {
	fs := flag.NewFlagSet("tail", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("tail needs exactly one file")
	}
	path := fs.Arg(0)

	s, err := openSession(g)
	if err != nil {
		return err
	}
	defer s.Close()
	ctx, cancel := s.start()
	defer cancel()

	debounce := time.Duration(s.cfg.Feed.DebounceMs) * time.Millisecond
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		err := feed.Tail(ctx, s.con, path, debounce)
		s.printScreen()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	tailErr := make(chan error, 1)
	go func() { tailErr <- feed.Tail(ctx, s.con, path, debounce) }()
	if err := s.runViewer(ctx, true); err != nil {
		return err
	}
	cancel()
	if err := <-tailErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func cmdExec(args []string) error {
	fs := flag.NewFlagSet("exec", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)

	s, err := openSession(g)
	if err != nil {
		return err
	}
	defer s.Close()

	spec := feed.ExecSpec{
		Command: s.cfg.Exec.Command,
		Args:    s.cfg.Exec.Args,
		Dir:     s.cfg.Exec.WorkingDirectory,
		Env:     s.cfg.Exec.Environment,
	}
	if fs.NArg() > 0 {
		spec.Command = fs.Arg(0)
		spec.Args = fs.Args()[1:]
	}
	if spec.Command == "" {
		return fmt.Errorf("exec needs a command (after --, or exec.command in config.json)")
	}

	ctx, cancel := s.start()
	defer cancel()

	stdinFd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(stdinFd) && term.IsTerminal(int(os.Stdout.Fd()))
	var stdin io.Reader
	if interactive {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(stdinFd, oldState)
		stdin = os.Stdin

		done := make(chan struct{})
		defer close(done)
		go repaintLoop(s.con, os.Stdout, done)
	}

	log.Printf("INFO: Running %s %v on the console", spec.Command, spec.Args)
	runErr := feed.Exec(ctx, s.con, stdin, spec)
	if !interactive {
		s.printScreen()
	}
	return runErr
}

// repaintLoop mirrors the console onto w until done closes.
func repaintLoop(con *console.Shared, w io.Writer, done <-chan struct{}) {
	ticker := time.NewTicker(repaintInterval)
	defer ticker.Stop()
	var last console.State
	first := true
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			st := con.State()
			if !first && st.Screen == last.Screen && st.X == last.X && st.Y == last.Y {
				continue
			}
			first = false
			last = st
			w.Write(render.ANSI(st.Screen, st.X, st.Y))
		}
	}
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)

	s, err := openSession(g)
	if err != nil {
		return err
	}
	defer s.Close()
	if !s.cfg.SSH.Enabled && !s.cfg.Telnet.Enabled {
		return fmt.Errorf("no server enabled; set ssh.enabled or telnet.enabled in %s/config.json", *g.configDir)
	}

	ctx, cancel := s.start()
	defer cancel()
	mode := s.cfg.ModeFlag()
	errCh := make(chan error, 2)
	running := 0

	if s.cfg.SSH.Enabled {
		srv, err := sshserver.NewServer(sshserver.Config{
			HostKeyPath:         s.cfg.SSH.HostKeyPath,
			Host:                s.cfg.SSH.Host,
			Port:                s.cfg.SSH.Port,
			LegacySSHAlgorithms: s.cfg.SSH.LegacyAlgorithms,
			SessionHandler:      sshserver.SessionHandler(mode),
			Version:             s.cfg.SSH.Version,
		})
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		running++
		go func() {
			err := srv.ListenAndServe()
			if errors.Is(err, ssh.ErrServerClosed) {
				err = nil
			}
			errCh <- err
		}()
		go func() {
			<-ctx.Done()
			log.Printf("INFO: Shutting down SSH server")
			srv.Close()
		}()
	}

	if s.cfg.Telnet.Enabled {
		cp437 := s.cfg.Telnet.CP437
		srv, err := telnetserver.NewServer(telnetserver.Config{
			Host: s.cfg.Telnet.Host,
			Port: s.cfg.Telnet.Port,
			SessionHandler: func(id string, conn *telnetserver.Conn) {
				var out io.Writer = conn
				if cp437 {
					out = terminalio.NewCP437Writer(conn)
				}
				rw := struct {
					io.Reader
					io.Writer
				}{conn, out}
				if err := remote.Play(rw, remote.NewConsole(mode)); err != nil {
					log.Printf("WARN: Telnet session %s ended with error: %v", id, err)
				}
			},
		})
		if err != nil {
			return fmt.Errorf("telnet server: %w", err)
		}
		running++
		go func() {
			err := srv.ListenAndServe()
			if errors.Is(err, telnetserver.ErrServerClosed) {
				err = nil
			}
			errCh <- err
		}()
		go func() {
			<-ctx.Done()
			log.Printf("INFO: Shutting down telnet server")
			srv.Close()
		}()
	}

	var firstErr error
	for ; running > 0; running-- {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	return firstErr
}

func cmdView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	g := addGlobalFlags(fs)
	baud := fs.Int("baud", -1, "Bits per second for FILE (default from config, 0 = unthrottled)")
	fs.Parse(args)
	if fs.NArg() > 1 {
		return fmt.Errorf("view takes at most one file")
	}

	s, err := openSession(g)
	if err != nil {
		return err
	}
	defer s.Close()
	ctx, cancel := s.start()
	defer cancel()

	live := fs.NArg() == 1
	if live {
		name := fs.Arg(0)
		go func() {
			if err := replayFile(ctx, s, name, s.baud(*baud)); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("WARN: %v", err)
			}
		}()
	}
	return s.runViewer(ctx, live)
}

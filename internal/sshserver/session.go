package sshserver

import (
	"io"
	"log"

	"github.com/gliderlabs/ssh"
	"github.com/google/uuid"

	"github.com/stlalpha/vgaterm/internal/logging"
	"github.com/stlalpha/vgaterm/internal/remote"
)

// SessionHandler gives every SSH session its own console in the given mode.
// The client's keystrokes are fed to the console and the client screen is
// repainted after each read. ^C or ^D ends the session.
func SessionHandler(modeFlag uint32) ssh.Handler {
	return func(s ssh.Session) {
		id := uuid.New()
		ptyReq, winCh, isPty := s.Pty()
		if !isPty {
			io.WriteString(s, "vgaterm needs a terminal; connect with ssh -t\r\n")
			s.Exit(1)
			return
		}
		log.Printf("INFO: Session %s started: user=%s remote=%s term=%s size=%dx%d",
			id, s.User(), s.RemoteAddr(), ptyReq.Term, ptyReq.Window.Width, ptyReq.Window.Height)

		// The display is fixed at 80x25; resize events are drained and ignored.
		go func() {
			for win := range winCh {
				logging.Debug("Session %s: ignoring resize to %dx%d", id, win.Width, win.Height)
			}
		}()

		if err := remote.Play(s, remote.NewConsole(modeFlag)); err != nil {
			log.Printf("WARN: Session %s ended with error: %v", id, err)
		}
		log.Printf("INFO: Session %s closed", id)
		s.Exit(0)
	}
}

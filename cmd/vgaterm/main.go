package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage("")
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		printUsage("")
		return
	}

	var err error
	switch cmd {
	case "render":
		err = cmdRender(os.Args[2:])
	case "tail":
		err = cmdTail(os.Args[2:])
	case "exec":
		err = cmdExec(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	case "view":
		err = cmdView(os.Args[2:])
	default:
		printUsage(fmt.Sprintf("Unknown command: %s", cmd))
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

const (
	clrReset   = "\033[0m"
	clrCyan    = "\033[36m"
	clrMagenta = "\033[35m"
	clrBold    = "\033[1m"
	separator  = "────────────────────────────────────────────────────────────────────────────"
)

func printHeader() {
	fmt.Fprintf(os.Stderr, "%svgaterm  ·  80x25 VGA text console%s\n", clrBold, clrReset)
	fmt.Fprintln(os.Stderr, separator)
}

func bullet(msg string) string {
	return fmt.Sprintf("%s■%s  %s%s%s", clrMagenta, clrReset, clrCyan, msg, clrReset)
}

func cmd(name, desc string) string {
	return fmt.Sprintf("  %s%-22s%s - %s%s%s",
		clrCyan, name, clrReset, clrCyan, desc, clrReset)
}

func opt(flag, desc string) string {
	return fmt.Sprintf("  %s%-18s%s %s%s%s",
		clrCyan, flag, clrReset, clrCyan, desc, clrReset)
}

func printUsage(errMsg string) {
	w := os.Stderr
	printHeader()
	fmt.Fprintln(w)
	if errMsg != "" {
		fmt.Fprintln(w, bullet(errMsg))
	}
	fmt.Fprintln(w, bullet("Required Format: vgaterm <command> [options] [args...]"))
	fmt.Fprintln(w, bullet("Valid Commands Are As Follows..."))
	fmt.Fprintln(w)
	fmt.Fprintln(w, cmd("RENDER FILE...", "Feed files (- for stdin) to the console and print the screen"))
	fmt.Fprintln(w, cmd("TAIL FILE", "Follow a growing file onto the console"))
	fmt.Fprintln(w, cmd("EXEC -- CMD ARGS...", "Run a program on an 80x25 pty wired to the console"))
	fmt.Fprintln(w, cmd("SERVE", "Give each SSH or telnet session its own console"))
	fmt.Fprintln(w, cmd("VIEW [FILE]", "Interactive console playground"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %sGlobal Options:%s\n", clrBold, clrReset)
	fmt.Fprintln(w, opt("-config DIR", "Config directory (default: configs)"))
	fmt.Fprintln(w, opt("-debug", "Enable debug logging (also DEBUG=1)"))
	fmt.Fprintln(w, opt("-baud N", "render/view: pace input at N bits per second"))
	fmt.Fprintln(w)
}

type globalFlags struct {
	configDir *string
	debug     *bool
}

func addGlobalFlags(fs *flag.FlagSet) globalFlags {
	return globalFlags{
		configDir: fs.String("config", "configs", "Config directory"),
		debug:     fs.Bool("debug", false, "Enable debug logging"),
	}
}

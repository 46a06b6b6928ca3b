// Command sessionctl inspects and manages tandem session files.
//
//	sessionctl [-session NAME] [-dir PATH] list
//	sessionctl [-session NAME] [-dir PATH] clear
//	sessionctl [-session NAME] [-dir PATH] serve [-addr :7070]
//	sessionctl fetch [-url http://127.0.0.1:7070/session]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"tandem/core/peers"
	"tandem/internal/config"
)

func main() {
	var (
		session = flag.String("session", config.DefaultSession, "Session name.")
		dir     = flag.String("dir", "", "Directory holding session files (default: user cache dir).")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]

	if cmd == "fetch" {
		fs := flag.NewFlagSet("fetch", flag.ExitOnError)
		url := fs.String("url", "http://127.0.0.1:7070/session", "Session endpoint of a running serve.")
		fs.Parse(args)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sess, err := fetch(ctx, newH2CClient(), *url)
		if err != nil {
			fatalf("fetch: %v", err)
		}
		printSession(os.Stdout, sess, time.Now())
		return
	}

	st, err := peers.OpenStore(*dir, *session)
	if err != nil {
		fatalf("%v", err)
	}

	switch cmd {
	case "list":
		sess, err := st.Read()
		if err != nil {
			fatalf("list: %v", err)
		}
		printSession(os.Stdout, sess, time.Now())
	case "clear":
		if err := st.Clear(); err != nil {
			fatalf("clear: %v", err)
		}
		fmt.Println("cleared", st.Path())
	case "serve":
		fs := flag.NewFlagSet("serve", flag.ExitOnError)
		addr := fs.String("addr", ":7070", "Listen address.")
		fs.Parse(args)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		fmt.Fprintf(os.Stderr, "sessionctl: serving %s on %s (h2c)\n", st.Path(), *addr)
		if err := serve(ctx, *addr, st); err != nil {
			fatalf("serve: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sessionctl [-session NAME] [-dir PATH] list|clear|serve [-addr :7070]")
	fmt.Fprintln(os.Stderr, "       sessionctl fetch [-url URL]")
	flag.PrintDefaults()
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printSession(w io.Writer, sess *peers.Session, now time.Time) {
	fmt.Fprintf(w, "version %d, %d window(s)\n", sess.Version, len(sess.Windows))
	if len(sess.Windows) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tX\tY\tW\tH\tSEEN\tMETA")
	for _, win := range sess.Windows {
		age := now.Sub(win.SeenTime()).Truncate(time.Millisecond)
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%s ago\t%s\n",
			win.ID, win.Shape.X, win.Shape.Y, win.Shape.W, win.Shape.H, age, formatMeta(win.Meta))
	}
	tw.Flush()
}

func formatMeta(m map[string]string) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		v := m[k]
		if strings.ContainsAny(v, " \t\"") {
			v = fmt.Sprintf("%q", v)
		}
		parts[i] = k + "=" + v
	}
	return strings.Join(parts, " ")
}

package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"chinguetti/internal/events"
)

// Tails the gateway's TCP event feed and prints catalog mutations as they
// happen, optionally narrowed to specific event types.
func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "gateway event feed address")
	types := flag.String("types", "", "comma-separated event types to show (default all)")
	raw := flag.Bool("raw", false, "print raw JSON lines instead of formatted events")
	flag.Parse()

	wanted := make(map[string]bool)
	for _, t := range strings.Split(*types, ",") {
		if t = strings.TrimSpace(t); t != "" {
			wanted[t] = true
		}
	}

	for {
		if err := tail(*addr, wanted, *raw); err != nil {
			log.Printf("[watch] feed lost: %v", err)
		}
		time.Sleep(2 * time.Second)
	}
}

func tail(addr string, wanted map[string]bool, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		if raw {
			fmt.Println(sc.Text())
			continue
		}
		printEvent(sc.Bytes(), wanted)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("feed closed by %s", addr)
}

func printEvent(line []byte, wanted map[string]bool) {
	var ev events.EntryEvent
	if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
		// not a known event; show it rather than hide it
		fmt.Println(string(line))
		return
	}

	if ev.Type == events.TypeWelcome {
		var w events.WelcomeNotice
		if err := json.Unmarshal(line, &w); err == nil {
			log.Printf("[watch] connected to %s feed, %d peer(s)", w.Transport, w.Peers)
		}
		return
	}
	if len(wanted) > 0 && !wanted[ev.Type] {
		return
	}

	who := ev.Username
	if who == "" {
		who = "-"
	}
	fmt.Printf("%s  %-14s #%-6d %s (%s)\n",
		ev.At.Local().Format("15:04:05"), ev.Type, ev.EntryID, ev.Title, who)
}

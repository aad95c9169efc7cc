package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"chinguetti/internal/catalog"
	"chinguetti/internal/classify"
	"chinguetti/internal/session"
	"chinguetti/internal/upstream"
	"chinguetti/pkg/utils"
)

func main() {
	global := flag.NewFlagSet("chinguetti", flag.ExitOnError)
	tokenPath := global.String("token", session.DefaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	cfg := utils.LoadUpstreamConfig()
	tokens := session.NewFileTokenStore(*tokenPath)
	client := upstream.NewClient(cfg.BaseURL, tokens, cfg.Timeout)
	cat := catalog.NewService(client, cfg.Timeout)

	switch cmd {
	case "auth":
		handleAuth(ctx, client, sub, args[2:])
	case "entries":
		handleEntries(ctx, client, cat, sub, args[2:])
	case "categories":
		handleCategories(ctx, cat, sub)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *upstream.Client, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *password == "" {
			log.Fatal("username and password are required")
		}
		if err := client.Login(ctx, *username, *password); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		fmt.Println("✅ logged in")
	case "logout":
		if err := client.Logout(ctx); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("✅ logged out")
	default:
		log.Fatal("usage: chinguetti auth <login|logout>")
	}
}

func handleEntries(ctx context.Context, client *upstream.Client, cat *catalog.Service, sub string, args []string) {
	switch sub {
	case "list":
		fs := flag.NewFlagSet("entries list", flag.ExitOnError)
		category := fs.String("category", "", "category id or slug")
		kind := fs.String("kind", "", "kind id or slug")
		entryType := fs.String("type", "", "entry type (manuscript|book|investigation)")
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", catalog.DefaultPageSize, "page size")
		_ = fs.Parse(args)

		f := catalog.Filter{
			Category:  *category,
			EntryType: *entryType,
			Kind:      parseKind(*kind),
		}
		p, err := cat.EntriesPage(ctx, f, *page, *limit)
		if err != nil {
			log.Fatalf("list failed: %v", err)
		}
		fmt.Printf("page %d of %d (%d total)\n", *page, catalog.TotalPages(p.Count, *limit), p.Count)
		for _, e := range p.Results {
			fmt.Printf("  %-6d %-40s %s\n", e.ID, e.Title, classify.DetailRoute(e))
		}
	case "show":
		fs := flag.NewFlagSet("entries show", flag.ExitOnError)
		id := fs.Int("id", 0, "entry id")
		_ = fs.Parse(args)
		if *id == 0 {
			log.Fatal("entry id is required")
		}

		e, err := cat.Entry(ctx, *id)
		if err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(e)
	case "search":
		fs := flag.NewFlagSet("entries search", flag.ExitOnError)
		q := fs.String("q", "", "search terms")
		_ = fs.Parse(args)
		if *q == "" {
			log.Fatal("search terms are required")
		}

		ss := cat.NewSearchSession()
		entries, err := ss.Search(ctx, *q)
		if catalog.IsStale(err) {
			return
		}
		if err != nil {
			log.Fatalf("search failed: %v", err)
		}
		fmt.Printf("%d matches\n", len(entries))
		for _, e := range entries {
			fmt.Printf("  %-6d %-40s %s\n", e.ID, e.Title, classify.DisplayCategory(e))
		}
	case "delete":
		fs := flag.NewFlagSet("entries delete", flag.ExitOnError)
		id := fs.Int("id", 0, "entry id")
		_ = fs.Parse(args)
		if *id == 0 {
			log.Fatal("entry id is required")
		}

		if err := client.DeleteEntry(ctx, *id); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		fmt.Println("✅ deleted")
	case "publish":
		fs := flag.NewFlagSet("entries publish", flag.ExitOnError)
		id := fs.Int("id", 0, "entry id")
		published := fs.Bool("published", true, "published flag")
		_ = fs.Parse(args)
		if *id == 0 {
			log.Fatal("entry id is required")
		}

		e, err := client.UpdateEntry(ctx, *id, upstream.Fields{"published": *published}, nil)
		if err != nil {
			log.Fatalf("publish failed: %v", err)
		}
		printJSON(e)
	default:
		log.Fatal("usage: chinguetti entries <list|show|search|delete|publish>")
	}
}

func handleCategories(ctx context.Context, cat *catalog.Service, sub string) {
	switch sub {
	case "list", "":
		cats, err := cat.Categories(ctx)
		if err != nil {
			log.Fatalf("categories failed: %v", err)
		}
		for _, c := range cats {
			fmt.Printf("  %-4d %-25s %s\n", c.ID, c.Name, c.Slug)
		}
	default:
		log.Fatal("usage: chinguetti categories list")
	}
}

func parseKind(s string) int {
	if s == "" {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
		return n
	}
	return classify.KindBySlug(s)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	fmt.Println(string(b))
}

func printUsage() {
	fmt.Println(`usage: chinguetti [-token path] <command>

commands:
  auth login -username u -password p
  auth logout
  entries list [-category c] [-kind k] [-type t] [-page n] [-limit n]
  entries show -id n
  entries search -q terms
  entries delete -id n
  entries publish -id n [-published=false]
  categories list`)
}

// Command seed stores a demo account and the sample reading list in the
// configured store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/do/v2"

	"github.com/bloglist/bloglist/internal/di"
	"github.com/bloglist/bloglist/internal/di/providers"
	"github.com/bloglist/bloglist/internal/seed"
	"github.com/bloglist/bloglist/internal/service"
)

func main() {
	var (
		username = flag.String("username", "root", "Username owning the seeded posts")
		name     = flag.String("name", "Superuser", "Display name for a new account")
		password = flag.String("password", os.Getenv("SEED_PASSWORD"), "Password for a new account")
		format   = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "password is required (-password or SEED_PASSWORD)")
		os.Exit(1)
	}

	injector := di.NewContainer()
	defer func() { _ = injector.Shutdown() }()

	store, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect store:", err)
		os.Exit(1)
	}
	users := do.MustInvoke[*service.UserService](injector)
	blogs := do.MustInvoke[*service.BlogService](injector)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := seed.Run(ctx, store, users, blogs, seed.Options{
		Username: *username,
		Name:     *name,
		Password: *password,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Printf("user %s (%s): %d posts added\n", res.Username, res.UserID, len(res.BlogIDs))
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// Command useradd creates a streamdesk user directly in the configured
// PostgreSQL database. It reads the same configuration sources as the server.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/streamdesk/internal/flagx"
	"github.com/dmitrijs2005/streamdesk/internal/server/config"
	"github.com/dmitrijs2005/streamdesk/internal/server/repositories/repomanager"
)

func main() {
	cfg := config.LoadConfig()
	if cfg.DatabaseDSN == "" {
		log.Fatal("a database DSN is required (DATABASE_DSN or -d)")
	}

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	email := fs.String("email", "", "email of the new user")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-email"})); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	repos := repomanager.NewPostgresRepositoryManager(db)
	defer repos.Close()

	if err := run(ctx, cfg, repos, *email, bufio.NewReader(os.Stdin), os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// kitlocal opens the local store for an account, runs the legacy-key
// migration and prints a summary of the persisted documents. With -sync it
// also reconciles the chat cache against the document API.
//
//	kitlocal -db ./.kitlocal -user u_123
//	kitlocal -config ./config.yaml -email artist@example.com -sync
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kitlocal/internal/app"
	"kitlocal/pkg/config"
	"kitlocal/pkg/logger"
)

func main() {
	var userID, email string
	var doSync bool
	flag.StringVar(&userID, "user", "", "account user id")
	flag.StringVar(&email, "email", "", "account email (used when no user id)")
	flag.BoolVar(&doSync, "sync", false, "reconcile chat state against the document API")
	dbVal, cfgVal, setFlags := config.ParseCommandFlags()

	cfgPath := config.ResolveConfigPath(cfgVal, setFlags["config"])
	if setFlags["db"] {
		// explicit flag wins over config file and env
		os.Setenv("KITLOCAL_DB_PATH", dbVal)
	}

	a, err := app.New(cfgPath)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer a.Close()

	if userID == "" && email == "" {
		fmt.Fprintln(os.Stderr, "-user or -email required")
		os.Exit(2)
	}

	sess, err := a.SignIn(ctx, userID, email)
	if err != nil {
		log.Fatalf("sign-in failed: %v", err)
	}
	defer sess.Close()

	catalog := sess.Catalog.Get()
	kitlog := sess.KitLog.Get()
	history := sess.AnalysisHistory.Get()
	chatState := sess.ChatHistory.Get()

	if doSync {
		chatState, err = sess.SyncChat(ctx)
		if err != nil {
			logger.Warn("chat_sync_failed", "error", err)
		}
	}

	fmt.Printf("scope:            %s\n", sess.Scope)
	fmt.Printf("clients:          %d\n", len(catalog.Clients))
	fmt.Printf("kit categories:   %d (%v)\n", len(kitlog.Categories), sess.KitLog.CategoryNames())
	fmt.Printf("analysis entries: %d\n", len(history.Entries))
	fmt.Printf("open chats:       %d\n", len(chatState.OpenChats))
}

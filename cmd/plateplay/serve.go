package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abrezinsky/plateplay/internal/app"
	"github.com/abrezinsky/plateplay/internal/auth"
	"github.com/abrezinsky/plateplay/internal/browser"
	"github.com/abrezinsky/plateplay/web"
)

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	accounts, generated, err := auth.ParseAccounts(cfg.Owners)
	if err != nil {
		return fmt.Errorf("%w (use --owner name[:password])", err)
	}

	out := cmd.OutOrStdout()
	printBanner(out)

	appLog := newCommandLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, appLog, cfg, web.GetTemplatesFS(), web.GetStaticFS(), auth.New(accounts))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	owners := make([]string, 0, len(generated))
	for owner := range generated {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	for _, owner := range owners {
		appLog.Info("Owner password", "owner", owner, "password", generated[owner])
	}

	var keyboardDone chan struct{}
	if cfg.NoKeyboard || !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(out, "%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	} else {
		k := &keyboard{
			out:          out,
			log:          appLog,
			open:         browser.Open,
			dashboardURL: fmt.Sprintf("http://localhost:%d/dashboard", cfg.Port),
		}
		k.printHelp("\n")
		keyboardDone = make(chan struct{})
		go func() {
			defer close(keyboardDone)
			listenForKeyboard(ctx, stop, k)
		}()
	}

	err = a.Run(ctx)
	stop()
	if keyboardDone != nil {
		<-keyboardDone
	}
	return err
}
